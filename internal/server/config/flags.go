package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/docreview/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-k string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-s string   seed file
//	-i string   static image directory
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-t", "-s", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.TokenValidity.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.SeedFile, "s", config.SeedFile, "seed file (yaml or json)")
	fs.StringVar(&config.StaticDir, "i", config.StaticDir, "static image directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidity = time.Duration(*validity) * time.Minute
		}
	})
}
