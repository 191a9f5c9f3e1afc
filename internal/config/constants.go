package config

import "salesinsight/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "salesinsight"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. SALES_SERVER_PORT
	EnvPrefix = "SALES"

	// Cleaning defaults
	DefaultPriceCeiling   = 10000.0
	DefaultUnknownProduct = "Desconhecido"

	// File Paths (relative to the working directory)
	DefaultInputFile   = "data/dados_vendas_ficticias.csv"
	DefaultCleanedFile = "data/dados_vendas_ficticias_limpos.csv"
	DefaultReportsDir  = "data/reports"
	DefaultLogFile     = "logs/app.log"

	// Ledger file format
	LedgerSeparator = ';'

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Terminal output
	DefaultHeadRows = 5
)
