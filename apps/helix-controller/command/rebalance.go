package command

import (
	"time"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller"
	"github.com/funkygao/helix-controller/store/zk"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	DurationConfig(RebalanceCmd, "leader-wait", "", 10*time.Second, "how long to wait for controller leadership")
}

// RebalanceCmd runs a single rebalance pass and exits. It needs leadership,
// so it only succeeds when no other controller runs.
var RebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Rebalance a cluster once and write the ideal states back",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}

		m, err := zk.NewZkHelixManager(cfg.Cluster, cfg.Instance, cfg.ZkSvr, zk.WithoutWatches())
		if err != nil {
			return err
		}
		if err = m.Connect(); err != nil {
			return err
		}
		defer m.Disconnect()

		if !waitLeader(m, viper.GetDuration("leader-wait")) {
			return errors.Wrapf(helix.ErrNotLeader, "%s on %s", cfg.Instance, cfg.Cluster)
		}

		c := controller.NewGenericHelixController(m, cfg.ControllerConfig())
		defer c.Stop()

		if err = c.HandleEvent(helix.EventPeriodicRefresh); err != nil {
			return err
		}

		log.Infof("cluster %s rebalanced", cfg.Cluster)
		return nil
	},
}

func waitLeader(m helix.HelixManager, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for !m.IsLeader() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
	return true
}
