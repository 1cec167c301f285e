package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/xh3b4sd/tracer"
)

// remote delegates prediction to an HTTP model server. The request body is
// {"features":[...]} and the response is either a bare number or
// {"prediction":x}.
type remote struct {
	url string
	cli *http.Client
}

func newRemote(url string, cli *http.Client) (*remote, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("invalid artifact: remote model url %q must be http(s)", url)
	}

	return &remote{url: url, cli: cli}, nil
}

func (r *remote) Predict(ctx context.Context, vector []float64) (float64, error) {
	var err error

	var byt []byte
	{
		byt, err = json.Marshal(map[string][]float64{"features": vector})
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewBuffer(byt))
		if err != nil {
			return 0, tracer.Mask(err)
		}
		req.Header.Set("Content-Type", "application/json")
	}

	var res *http.Response
	{
		res, err = r.cli.Do(req)
		if err != nil {
			return 0, tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(res.Body)
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return 0, tracer.Mask(fmt.Errorf("remote model returned %d: %s", res.StatusCode, strings.TrimSpace(string(bod))))
	}

	return parseRemoteResponse(bod)
}

func parseRemoteResponse(bod []byte) (float64, error) {
	txt := strings.TrimSpace(string(bod))

	flo, err := strconv.ParseFloat(txt, 64)
	if err == nil {
		return flo, nil
	}

	var obj struct {
		Prediction *float64 `json:"prediction"`
	}
	{
		err := json.Unmarshal([]byte(txt), &obj)
		if err != nil {
			return 0, tracer.Mask(fmt.Errorf("decode remote prediction: %w", err))
		}
	}
	if obj.Prediction == nil {
		return 0, tracer.Mask(fmt.Errorf("remote model response has no prediction"))
	}

	return *obj.Prediction, nil
}
