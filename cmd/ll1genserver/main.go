/*
Ll1genserver starts a grammar registry server and begins listening for new
connections.

Usage:

	ll1genserver [flags]
	ll1genserver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using a REST API, letting clients submit grammars for LL(1) analysis, fetch
the results, and request generated Go parser source. By default, it listens
on localhost:8080. This can be changed with the --listen/-l flag (or its
environment-variable equivalent).

If a JWT token secret is not given, one is generated automatically, seeded
from the system's random source. As a consequence, in this mode of
operation all tokens become invalid as soon as the server shuts down. This
is suitable for testing, but a secret must be given via either a CLI flag
or environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		LL1GEN_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are fewer
		than 32 bytes in the secret, it is repeated until it is. The maximum
		size is 64 bytes. If not given, defaults to the value of environment
		variable LL1GEN_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory, such as sqlite:path/to/db_dir. If
		not given, defaults to the value of environment variable
		LL1GEN_DATABASE. If no DB driver is specified, an in-memory
		database is automatically selected.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/ll1gen/server"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llserr"
)

const (
	EnvListen = "LL1GEN_LISTEN_ADDRESS"
	EnvSecret = "LL1GEN_TOKEN_SECRET"
	EnvDB     = "LL1GEN_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("ll1genserver (ll1gen v%s)\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	addr, port, err := resolveListenAddr()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	dbConfig, err := resolveDBConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	tokSecret, err := resolveTokenSecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}

	cfg := server.Config{TokenSecret: tokSecret, DB: dbConfig}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	// immediately create the admin user so we have someone we can log in as.
	_, err = srv.CreateUser(context.Background(), "admin", "password", dao.Admin)
	if err != nil && !errors.Is(err, llserr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}
	if !errors.Is(err, llserr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	log.Printf("INFO  Starting ll1gen server %s on %s:%d...", version.Current, addr, port)
	if err := srv.ServeForever(addr, port); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func resolveListenAddr() (addr string, port int, err error) {
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return "localhost", 8080, nil
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}

	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}
	return bindParts[0], port, nil
}

func resolveDBConfig() (server.Database, error) {
	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		return server.Database{Type: server.DatabaseInMemory}, nil
	}

	dbConfig, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		return server.Database{}, fmt.Errorf("not a valid DB string: %w", err)
	}
	if dbConfig.Type == server.DatabaseSQLite {
		if err := os.MkdirAll(dbConfig.DataDir, 0770); err != nil {
			return server.Database{}, fmt.Errorf("could not build data directory: %w", err)
		}
	}
	return dbConfig, nil
}

func resolveTokenSecret() ([]byte, error) {
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	if tokSecStr == "" {
		tokSecret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret, nil
	}

	tokSecret := []byte(tokSecStr)
	for len(tokSecret) < server.MinSecretSize {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > server.MaxSecretSize {
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
	}
	return tokSecret, nil
}
