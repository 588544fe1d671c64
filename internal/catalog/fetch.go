// Public domain.

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// WDSURL is the published WDS summary.
const WDSURL = "http://www.astro.gsu.edu/wds/Webtextfiles/wdsweb_summ2.txt"

// FetchWDS gets a fresh copy of the WDS summary at url and writes it to
// file.  The file is replaced only when the whole body was read.
func FetchWDS(ctx context.Context, url, file string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	r, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: %s", url, r.Status)
	}
	tmp := file + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r.Body)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return n, err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return n, err
	}
	return n, os.Rename(tmp, file)
}
