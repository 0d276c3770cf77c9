package controllers

import (
	"errors"
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/config"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// secretEnvVar is consulted when no --secret flag is given, so tokens can be
// kept out of shell history.
const secretEnvVar = "GITEASYNC_TOKEN"

// connection is the resolved server target for one invocation. The secret
// lives only in this value for the duration of the command.
type connection struct {
	ServerURL          string
	Credentials        entities.Credentials
	DefaultBranch      string
	InsecureSkipVerify bool
}

// resolveConnection merges flags, the optional config file, and the token
// environment variable into one connection. Flags win over the file; the
// secret never comes from the file.
func resolveConnection(cmd *cobra.Command) (connection, error) {
	server, _ := cmd.Flags().GetString("server")
	username, _ := cmd.Flags().GetString("username")
	secret, _ := cmd.Flags().GetString("secret")
	insecure, _ := cmd.Flags().GetBool("insecure")
	branch := config.DefaultBranch

	if cfg := loadConfig(cmd); cfg != nil {
		if server == "" {
			server = cfg.ServerURL
		}
		if username == "" {
			username = cfg.Username
		}
		if !insecure {
			insecure = cfg.InsecureSkipVerify
		}
		if cfg.DefaultBranch != "" {
			branch = cfg.DefaultBranch
		}
	}

	if secret == "" {
		secret = os.Getenv(secretEnvVar)
	}

	if server == "" {
		return connection{}, errors.New("server URL is required (--server or config file)")
	}
	if username == "" {
		return connection{}, errors.New("username is required (--username or config file)")
	}
	if secret == "" {
		return connection{}, fmt.Errorf("provide a password or token via --secret or %s", secretEnvVar)
	}

	return connection{
		ServerURL:          strings.TrimSuffix(server, "/"),
		Credentials:        entities.Credentials{Username: username, Secret: secret},
		DefaultBranch:      branch,
		InsecureSkipVerify: insecure,
	}, nil
}

// loadConfig loads the config file named by --config, or the first one found
// in the default locations. Running without any config file is fine.
func loadConfig(cmd *cobra.Command) *config.Config {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			return nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Warnf("ignoring config file %s: %v", path, err)
		return nil
	}
	logger.Debugf("using config file: %s", path)
	return cfg
}

// parseRepoArg splits an "owner/name" argument.
func parseRepoArg(arg string) (entities.Repository, error) {
	owner, name, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || name == "" {
		return entities.Repository{}, fmt.Errorf("expected owner/name, got %q", arg)
	}
	return entities.Repository{Owner: owner, Name: name}, nil
}

// renderEvent writes one operation event to the log, prefixing progress
// events with their percentage.
func renderEvent(event entities.Event) {
	if event.Kind == entities.EventProgress {
		logger.Infof("[%3.0f%%] %s", event.Fraction*100, event.Message)
		return
	}
	logger.Info(event.Message)
}
