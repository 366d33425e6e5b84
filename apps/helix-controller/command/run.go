package command

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/funkygao/helix-controller/controller"
	"github.com/funkygao/helix-controller/store/zk"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	StringConfig(RunCmd, "metrics-addr", "", ":9100", "prometheus metrics listen address, empty to disable")
	DurationConfig(RunCmd, "refresh-interval", "", time.Minute, "full rebalance interval, 0 to disable")
}

// RunCmd runs the controller until it is signaled.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller of a cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}

		if cfg.MetricsAddr != "" {
			go serveMetrics(cfg.MetricsAddr)
		}

		m, err := zk.NewZkHelixManager(cfg.Cluster, cfg.Instance, cfg.ZkSvr)
		if err != nil {
			return err
		}
		if err = m.Connect(); err != nil {
			return err
		}
		defer m.Disconnect()

		c := controller.NewGenericHelixController(m, cfg.ControllerConfig())
		c.Start()
		defer c.Stop()

		exitSig := make(chan os.Signal, 1)
		signal.Notify(exitSig, syscall.SIGINT, os.Interrupt, syscall.SIGTERM)
		s := <-exitSig
		log.Infof("Signal %s received, shutting down gracefully", s)
		return nil
	},
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Infof("metrics ready on http://%s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics server: %v", err)
	}
}
