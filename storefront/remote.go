package storefront

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/retailqa/storefront-contract-tests/framework"
)

// RemoteDriver implements PageDriver by delegating every DOM operation to an external
// browser-automation service over HTTP. The service exposes a root endpoint for
// creating browser sessions (POST) and a per-session resource for commands; closing
// the session resource ends the browser context. One session backs exactly one
// scenario attempt, which is what makes scenario isolation hold for UI tests.
type RemoteDriver struct {
	resourceURL string
	logger      framework.Logger
	videoFile   string
}

type createSessionParams struct {
	BaseURL string `json:"baseUrl"`
	Tag     string `json:"tag"`
}

type sessionInfo struct {
	VideoFile string `json:"videoFile,omitempty"`
}

type commandParams struct {
	Command  string `json:"command"`
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
}

type commandResult struct {
	Text    string   `json:"text,omitempty"`
	Texts   []string `json:"texts,omitempty"`
	Visible bool     `json:"visible,omitempty"`
	Image   string   `json:"image,omitempty"`
}

// NewSession asks the driver service to start a fresh browser session pointed at the
// storefront base URL. The tag identifies the owning scenario in the service's own
// logs and recordings.
func NewSession(serviceURL, baseURL, tag string, logger framework.Logger) (*RemoteDriver, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	data, err := json.Marshal(createSessionParams{BaseURL: baseURL, Tag: tag})
	if err != nil {
		return nil, err
	}
	logger.Printf("Creating browser session with parameters: %s", string(data))
	resp, err := http.DefaultClient.Post(serviceURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected response status %d from driver service: %s", resp.StatusCode, string(body))
	}
	resourceURL := resp.Header.Get("Location")
	if resourceURL == "" {
		return nil, errors.New("driver service did not return a Location header with a session URL")
	}
	if !strings.HasPrefix(resourceURL, "http:") && !strings.HasPrefix(resourceURL, "https:") {
		resourceURL = strings.TrimSuffix(serviceURL, "/") + resourceURL
	}

	d := &RemoteDriver{resourceURL: resourceURL, logger: logger}
	if len(body) > 0 {
		var info sessionInfo
		if err := json.Unmarshal(body, &info); err == nil {
			d.videoFile = info.VideoFile
		}
	}
	return d, nil
}

// Close tells the driver service to dispose of the browser session.
func (d *RemoteDriver) Close() error {
	req, err := http.NewRequest("DELETE", d.resourceURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	if resp.StatusCode != 200 && resp.StatusCode != 204 {
		return fmt.Errorf("DELETE request to driver service returned HTTP status %d", resp.StatusCode)
	}
	return nil
}

func (d *RemoteDriver) sendCommand(params commandParams) (commandResult, error) {
	data, _ := json.Marshal(params)
	d.logger.Printf("Sending command: %s", string(data))
	resp, err := http.DefaultClient.Post(d.resourceURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return commandResult{}, err
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return commandResult{}, fmt.Errorf("command %q returned HTTP status %d: %s", params.Command, resp.StatusCode, string(body))
	}
	var result commandResult
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return commandResult{}, fmt.Errorf("malformed response to command %q: %s", params.Command, string(body))
		}
	}
	return result, nil
}

func (d *RemoteDriver) Navigate(path string) error {
	_, err := d.sendCommand(commandParams{Command: "navigate", Value: path})
	return err
}

func (d *RemoteDriver) Click(selector string) error {
	_, err := d.sendCommand(commandParams{Command: "click", Selector: selector})
	return err
}

func (d *RemoteDriver) Fill(selector, value string) error {
	_, err := d.sendCommand(commandParams{Command: "fill", Selector: selector, Value: value})
	return err
}

func (d *RemoteDriver) Text(selector string) (string, error) {
	result, err := d.sendCommand(commandParams{Command: "text", Selector: selector})
	return result.Text, err
}

func (d *RemoteDriver) Texts(selector string) ([]string, error) {
	result, err := d.sendCommand(commandParams{Command: "texts", Selector: selector})
	return result.Texts, err
}

func (d *RemoteDriver) Visible(selector string) (bool, error) {
	result, err := d.sendCommand(commandParams{Command: "visible", Selector: selector})
	return result.Visible, err
}

func (d *RemoteDriver) VisibleText(selector string) (string, bool, error) {
	result, err := d.sendCommand(commandParams{Command: "visibleText", Selector: selector})
	return result.Text, result.Visible, err
}

// Screenshot asks the service for a still image of the current page.
func (d *RemoteDriver) Screenshot() ([]byte, error) {
	result, err := d.sendCommand(commandParams{Command: "screenshot"})
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(result.Image)
}

// VideoFile returns the recording path the driver service reported at session
// creation, or "" if recording is disabled.
func (d *RemoteDriver) VideoFile() string {
	return d.videoFile
}
