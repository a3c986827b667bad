package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/mafilu-cli/mafilu/network"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/mafilu-cli/mafilu/where"
	"github.com/metafates/gache"
)

// ReleasesURL is the GitHub API endpoint of the latest release.
var ReleasesURL = "https://api.github.com/repos/mafilu-cli/mafilu/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.State(), "version.json"),
	Lifetime:   48 * time.Hour,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version without the "v" prefix. The
// answer is cached for two days.
func Latest() (string, error) {
	cached, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}
	if !expired && cached != "" {
		return cached, nil
	}

	version, err := fetch(network.Client, ReleasesURL)
	if err != nil {
		return "", err
	}

	_ = versionCacher.Set(version)
	return version, nil
}

func fetch(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}
