package bundle

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/xh3b4sd/tracer"
)

// EnsureArtifact downloads the artifact from url when nothing exists at path.
// An empty url leaves a missing file missing.
func EnsureArtifact(path, url string, cli *http.Client) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return tracer.Mask(err)
	}

	if url == "" {
		return nil
	}

	log.Printf("📥 Model artifact not found at %s, downloading from %s", path, url)

	err := Download(url, path, cli)
	if err != nil {
		return tracer.Mask(err)
	}

	log.Printf("✅ Model artifact downloaded to %s", path)
	return nil
}

// Download fetches url into path through a temporary sibling file. A failed
// transfer leaves nothing at path.
func Download(url, path string, cli *http.Client) error {
	if cli == nil {
		cli = http.DefaultClient
	}

	dir := filepath.Dir(path)
	{
		err := os.MkdirAll(dir, 0o755)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var res *http.Response
	{
		var err error
		res, err = cli.Get(url)
		if err != nil {
			return tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	if res.StatusCode != http.StatusOK {
		return tracer.Mask(fmt.Errorf("download artifact: unexpected status %d", res.StatusCode))
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return tracer.Mask(err)
	}
	defer os.Remove(tmp.Name())

	{
		_, err := io.Copy(tmp, res.Body)
		if err != nil {
			tmp.Close()
			return tracer.Mask(err)
		}
	}

	{
		err := tmp.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := os.Rename(tmp.Name(), path)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}
