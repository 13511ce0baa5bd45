/*
Unambigd starts an ambiguity-detector HTTP service and begins listening for
requests.

Usage:

	unambigd [flags]
	unambigd [flags] -l [[ADDRESS]:PORT]

Once started, unambigd listens for HTTP requests and answers them per
internal/webapi: POST /v1/check runs the detector over a submitted grammar,
GET /v1/reports/{runID} replays a cached run. Every request must carry a
bearer JWT signed with the configured secret.

If a token secret is not given, one is automatically generated. As a
consequence all tokens become invalid as soon as the server shuts down;
this is suitable for local testing only; production deployments must set
--secret or the config file's webapi.token_secret.

The flags are:

	-v, --version
		Give the current version of unambigd and then exit.

	-c, --config FILE
		Load options from the given TOML config file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to the config file's webapi.bind_address, or
		":8080" if that is unset.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens, 32-64 bytes. If not
		given, falls back to the config file's webapi.token_secret, or a
		randomly generated secret.

	--cache-dir DIR
		Enable the sqlite-backed report cache in the given directory.

	--issue-token SUBJECT
		Instead of serving, mint a bearer token for SUBJECT signed with the
		resolved secret, print it, and exit.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/unambig/internal/cache"
	"github.com/dekarrin/unambig/internal/config"
	"github.com/dekarrin/unambig/internal/version"
	"github.com/dekarrin/unambig/internal/webapi"
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of unambigd and then exit.")
	flagConfig     = pflag.StringP("config", "c", "", "Load options from the given TOML config file.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret     = pflag.StringP("secret", "s", "", "Use the given secret for token signing.")
	flagCacheDir   = pflag.String("cache-dir", "", "Enable the sqlite-backed report cache in the given directory.")
	flagIssueToken = pflag.String("issue-token", "", "Mint a bearer token for the given subject and exit.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (unambig v%s)\n", "unambigd", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("FATAL could not load config: %s", err.Error())
	}
	if pflag.Lookup("listen").Changed {
		cfg.WebAPI.BindAddress = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		cfg.WebAPI.TokenSecret = *flagSecret
	}
	if pflag.Lookup("cache-dir").Changed {
		cfg.Cache.Enabled = true
		cfg.Cache.DataDir = *flagCacheDir
	}
	cfg = cfg.FillDefaults()

	secret := resolveSecret(cfg.WebAPI.TokenSecret)

	if *flagIssueToken != "" {
		tok, err := webapi.IssueToken(secret, *flagIssueToken)
		if err != nil {
			log.Fatalf("FATAL could not issue token: %s", err.Error())
		}
		fmt.Println(tok)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL invalid config: %s", err.Error())
	}

	var rcache *cache.Cache
	if cfg.Cache.Enabled {
		rcache, err = cache.Open(cfg.Cache)
		if err != nil {
			log.Fatalf("FATAL could not open cache: %s", err.Error())
		}
		defer rcache.Close()
	}

	api := &webapi.API{
		Secret:      secret,
		UnauthDelay: cfg.WebAPI.UnauthDelay(),
		Cache:       rcache,
	}

	log.Printf("INFO  Starting unambigd %s on %s...", version.Current, cfg.WebAPI.BindAddress)
	srv := &http.Server{
		Addr:    cfg.WebAPI.BindAddress,
		Handler: api.Router(),
	}
	if err := serveForever(srv); err != nil {
		log.Fatalf("FATAL server stopped: %s", err.Error())
	}
}

// resolveSecret repeats a short secret up to the minimum byte count and
// generates a random one if none was configured.
func resolveSecret(s string) []byte {
	if s == "" {
		secret := make([]byte, config.MaxSecretSize)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("FATAL could not generate token secret: %s", err.Error())
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return secret
	}

	secret := []byte(s)
	for len(secret) < config.MinSecretSize {
		secret = append(secret, secret...)
	}
	if len(secret) > config.MaxSecretSize {
		secret = secret[:config.MaxSecretSize]
	}
	return secret
}

func serveForever(srv *http.Server) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return srv.Serve(ln)
}
