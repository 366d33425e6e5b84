package zk

import (
	"strings"

	"github.com/funkygao/helix-controller"
	"github.com/pkg/errors"
)

// parseZkConnStr splits "host:port,host:port/chroot" into servers and chroot.
func parseZkConnStr(connStr string) (servers []string, chroot string, err error) {
	offset := strings.Index(connStr, "/")
	if offset == -1 {
		// no chroot
		offset = len(connStr)
	} else if chrootPath := connStr[offset:]; len(chrootPath) > 1 {
		chroot = strings.TrimRight(chrootPath, "/")
		if strings.Contains(chroot, "//") {
			return nil, "", errors.Wrapf(helix.ErrInvalidArgument, "chroot %s", chroot)
		}
	}

	for _, s := range strings.Split(connStr[:offset], ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	if len(servers) == 0 {
		return nil, "", errors.Wrapf(helix.ErrInvalidArgument, "zk servers %q", connStr)
	}

	return
}
