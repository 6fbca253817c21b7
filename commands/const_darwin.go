package commands

const (
	_etc = "/usr/local/etc/com.github.leasehub/hubspot-app-sheets"
	_var = "/usr/local/var/com.github.leasehub/hubspot-app-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CONFIG      = _etc + "/hubspot-app-sheets.yaml"
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
