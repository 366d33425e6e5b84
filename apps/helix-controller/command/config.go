// Package command implements the helix-controller commands.
package command

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller"
	"github.com/funkygao/helix-controller/controller/rebalancer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "HELIX"

// Config is the controller configuration, from flags or HELIX_* environment variables.
type Config struct {
	ZkSvr           string
	Cluster         string
	Instance        string
	Parallelism     int
	Timeout         time.Duration
	ReusePlugins    int
	RefreshInterval time.Duration
	MetricsAddr     string
}

// BindClusterFlags adds the flags shared by all commands.
func BindClusterFlags(cmd *cobra.Command) {
	StringConfig(cmd, "zk", "z", "localhost:2181", "zookeeper servers, with optional chroot: host:port,host:port/chroot")
	StringConfig(cmd, "cluster", "c", "", "cluster name")
	StringConfig(cmd, "instance", "i", defaultInstance(), "controller instance name")
	IntConfig(cmd, "parallelism", "", controller.DefaultParallelism, "max concurrent rebalancer invocations")
	DurationConfig(cmd, "timeout", "", controller.DefaultTimeout, "max duration of one rebalancer invocation")
	IntConfig(cmd, "reuse-plugins", "", 0, "keep up to N rebalancer instances across passes, 0 creates them per pass")
}

func defaultInstance() string {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return fmt.Sprintf("%s_controller", host)
}

func envName(name string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func bind(cmd *cobra.Command, name string) {
	if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
		log.Warnf("Could not bind flag to viper: %v", err)
	}
	if err := viper.BindEnv(name, envName(name)); err != nil {
		log.Warnf("Could not bind viper value to env: %v", err)
	}
}

// StringConfig adds a string flag to a cli
func StringConfig(cmd *cobra.Command, name, short, value, description string) {
	cmd.PersistentFlags().StringP(name, short, value, description)
	bind(cmd, name)
}

// BoolConfig adds a bool flag to a cli
func BoolConfig(cmd *cobra.Command, name, short string, value bool, description string) {
	cmd.PersistentFlags().BoolP(name, short, value, description)
	bind(cmd, name)
}

func IntConfig(cmd *cobra.Command, name, short string, value int, description string) {
	cmd.PersistentFlags().IntP(name, short, value, description)
	bind(cmd, name)
}

func DurationConfig(cmd *cobra.Command, name, short string, value time.Duration, description string) {
	cmd.PersistentFlags().DurationP(name, short, value, description)
	bind(cmd, name)
}

// LoadConfig reads the configuration from viper.
func LoadConfig() (Config, error) {
	cfg := Config{
		ZkSvr:           viper.GetString("zk"),
		Cluster:         viper.GetString("cluster"),
		Instance:        viper.GetString("instance"),
		Parallelism:     viper.GetInt("parallelism"),
		Timeout:         viper.GetDuration("timeout"),
		ReusePlugins:    viper.GetInt("reuse-plugins"),
		RefreshInterval: viper.GetDuration("refresh-interval"),
		MetricsAddr:     viper.GetString("metrics-addr"),
	}

	switch {
	case cfg.ZkSvr == "":
		return cfg, errors.Wrap(helix.ErrInvalidArgument, "empty --zk")
	case cfg.Cluster == "":
		return cfg, errors.Wrap(helix.ErrInvalidArgument, "empty --cluster")
	case cfg.Instance == "":
		return cfg, errors.Wrap(helix.ErrInvalidArgument, "empty --instance")
	case cfg.Parallelism < 0 || cfg.ReusePlugins < 0 || cfg.Timeout < 0:
		return cfg, errors.Wrap(helix.ErrInvalidArgument, "negative numeric flag")
	}
	return cfg, nil
}

// ControllerConfig translates the configuration for the controller.
func (cfg Config) ControllerConfig() controller.Config {
	var options []rebalancer.ResolverOption
	if cfg.ReusePlugins > 0 {
		options = append(options, rebalancer.WithInstanceReuse(cfg.ReusePlugins))
	}

	return controller.Config{
		Resolver:        rebalancer.NewResolver(rebalancer.DefaultRegistry, options...),
		Parallelism:     cfg.Parallelism,
		Timeout:         cfg.Timeout,
		RefreshInterval: cfg.RefreshInterval,
	}
}
