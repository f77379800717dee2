package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
)

const timeout = 30 * time.Second

func baseURL(ctx *cli.Context) string {
	return ctx.String(urlFlagName) + "/v1"
}

// request performs a JSON call against the admin interface and pretty-prints
// the response body. Non-2xx responses become errors carrying the body.
func request(ctx *cli.Context, method, path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, baseURL(ctx)+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if operator := ctx.String(operatorFlagName); len(operator) > 0 {
		req.Header.Set("X-Operator", operator)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	// nolint
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s", buf)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "  "); err != nil {
		fmt.Println(string(buf))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
