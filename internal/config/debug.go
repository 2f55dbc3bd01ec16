package config

import "os"

func IsDebug() bool {
	return os.Getenv("LNSHELL_DEBUG") == "1"
}
