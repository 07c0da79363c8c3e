package flagx

import "os"

// EnvOverlay copies every set environment variable named in vars into the
// string it points at. Unset variables leave the target untouched; a variable
// set to the empty string clears it.
func EnvOverlay(vars map[string]*string) {
	for name, target := range vars {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}
}
