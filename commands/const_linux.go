package commands

const (
	_etc = "/usr/local/etc/hubspot-app-sheets"
	_var = "/usr/local/var/hubspot-app-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CONFIG      = _etc + "/hubspot-app-sheets.yaml"
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
