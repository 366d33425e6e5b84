package helix

// Set at build time with -ldflags "-X github.com/funkygao/helix-controller.Ver=...".
var (
	Ver       = "dev"
	BuildDate = "unknown"
)
