package manifest

import "github.com/Masterminds/semver/v3"

// ChartName is the package name carried in object labels.
const ChartName = "rowcache"

// AppVersion is the default image tag when the values leave it empty.
const AppVersion = "1.4.0"

const chartVersion = "0.8.0"

// chartSemver guards the version constant; a malformed version panics at
// init rather than producing a bad helm.sh/chart label.
var chartSemver = semver.MustParse(chartVersion)

// ChartLabel returns the helm.sh/chart label value, e.g. "rowcache-0.8.0".
func ChartLabel() string {
	return ChartName + "-" + chartSemver.String()
}
