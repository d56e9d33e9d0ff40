package bersim

import (
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
)

// BERSIM_VERSION is stamped in by the release build:
//
//	go build -ldflags "-X 'github.com/doismellburning/bersim/src.BERSIM_VERSION=1.2.0'" ./cmd/bersim
var BERSIM_VERSION string

// buildSetting looks up a key such as "vcs.revision" in the embedded build info.
func buildSetting(bi *debug.BuildInfo, key string, fallback string) string {
	if bi == nil {
		return fallback
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return fallback
}

// versionLine is the one line -v prints: release, VCS revision (marked if the tree
// was modified or that is unknown) and commit time.
func versionLine(bi *debug.BuildInfo) string {
	var release = BERSIM_VERSION
	if release == "" {
		release = "!UNKNOWN!"
	}

	var revision = buildSetting(bi, "vcs.revision", "UNKNOWN")

	var modified, err = strconv.ParseBool(buildSetting(bi, "vcs.modified", ""))
	switch {
	case err != nil:
		revision += "-UNKNOWNDIRTY"
	case modified:
		revision += "-DIRTY"
	}

	return fmt.Sprintf("bersim - Version %s (revision %s, built at %s)", release, revision, buildSetting(bi, "vcs.time", "UNKNOWN"))
}

func printVersion(w io.Writer, verbose bool) {
	var bi, _ = debug.ReadBuildInfo()

	fmt.Fprintln(w, versionLine(bi))

	if verbose && bi != nil {
		fmt.Fprintf(w, "\n%s", bi)
	}
}
