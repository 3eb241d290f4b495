package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "SOKONI"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SOKONI_DB_DSN"
	EnvDBHost = "SOKONI_DB_HOST"
	EnvDBUser = "SOKONI_DB_USER"
	EnvDBName = "SOKONI_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
