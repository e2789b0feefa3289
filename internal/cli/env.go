package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// applyEnv sets every flag that was not given on the command line from its
// PREFIX_NAME environment variable, if present.
func applyEnv(fs *pflag.FlagSet, prefix string) error {
	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		value, ok := os.LookupEnv(envName(prefix, f.Name))
		if !ok {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", envName(prefix, f.Name), err))
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// envName maps a flag name to its environment variable.
func envName(prefix, flag string) string {
	return prefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
