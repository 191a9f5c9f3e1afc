// Package config provides centralized configuration management for salesinsight.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables use the SALES_ prefix and follow the struct
// nesting:
//
//	SALES_CLEANING_PRICE_CEILING=10000
//	SALES_CLEANING_UNKNOWN_PRODUCT=Desconhecido
//	SALES_PATHS_INPUT_FILE=data/dados_vendas_ficticias.csv
//	SALES_SERVER_PORT=8080
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_ENABLE_TRACING=true
//
// SALES_CONFIG_FILE points at the YAML file. Without it config.yaml and
// configs/config.yaml are tried.
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags and
// fails on out-of-range values, such as a non-positive price ceiling or an
// unknown report format.
package config
