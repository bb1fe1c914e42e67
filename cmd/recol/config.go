package main

import (
	"fmt"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/viper"
)

// applyLogFlags sets the log level from the global --verbose/--quiet flags
func applyLogFlags() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// openCatalog opens (and migrates) the catalog database named by --db
func openCatalog() (*catalog.Catalog, error) {
	dbPath := viper.GetString("db")
	util.InfoLog("Opening catalog: %s", dbPath)

	cat, err := catalog.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return cat, nil
}

// requireConfigString returns a config value or an error naming the key
// and matching environment variable
func requireConfigString(key string) (string, error) {
	val := viper.GetString(key)
	if val == "" {
		return "", fmt.Errorf("%w: %s is required (set %s in config or RECOL_%s)",
			util.ErrInvalidConfig, key, key, envSuffix(key))
	}
	return val, nil
}

func envSuffix(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		} else if c == '.' || c == '-' {
			c = '_'
		}
		out = append(out, c)
	}
	return string(out)
}

// newReconciler builds the MusicBrainz reconciler the provider syncs
// hand each imported album to
func newReconciler(cat *catalog.Catalog, client *musicbrainz.Client) *musicbrainz.Reconciler {
	return musicbrainz.NewReconciler(musicbrainz.ReconcilerConfig{
		Catalog: cat,
		Client:  client,
	})
}
