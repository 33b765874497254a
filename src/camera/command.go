package camera

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/metrics"
	"github.com/kerberos-io/translator/src/models"
	"github.com/sirupsen/logrus"
)

var ErrTransport = errors.New("camera transport failure")

// TransportError wraps a failure to reach the camera or to read its answer.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return "camera command to " + e.URL + " failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Response is what the camera answered to a command. The content is not
// interpreted, it is only forwarded.
type Response struct {
	URL        string
	StatusCode int
	Body       string
}

// Dispatcher sends pan/tilt commands to the camera's control endpoint.
type Dispatcher struct {
	client    *resty.Client
	chunkSize int
}

// NewDispatcher creates a dispatcher. Camera commands are never retried and
// have no timeout other than the one carried by the context.
func NewDispatcher(tlsInsecure bool) *Dispatcher {
	client := resty.New()
	client.SetRetryCount(0)
	client.SetLogger(logrus.StandardLogger())
	if tlsInsecure {
		// IP cameras commonly ship self-signed certificates.
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return &Dispatcher{
		client:    client,
		chunkSize: 512,
	}
}

// EncodeAuthentication returns the base64 credentials for a Basic
// Authorization header.
func EncodeAuthentication(user string, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
}

// CommandBody builds the form body of a move command. Field order is the
// order the camera firmware was observed with.
func CommandBody(action models.ActionMessage) (string, error) {
	code, err := Encode(action.CameraAction)
	if err != nil {
		return "", err
	}
	body := "PanSingleMoveDegree=" + url.QueryEscape(strconv.Itoa(action.PanStepValue)) +
		"&TiltSingleMoveDegree=" + url.QueryEscape(strconv.Itoa(action.TiltStepValue)) +
		"&PanTiltSingleMove=" + url.QueryEscape(strconv.Itoa(code))
	return body, nil
}

// CommandURL is the address of the camera's command endpoint. The control
// endpoint is served over http unless the camera is configured for https.
func CommandURL(profile models.CameraProfile) string {
	scheme := "http"
	if profile.IPCameraProtocol == models.CameraProtocolHTTPS {
		scheme = "https"
	}
	path := profile.IPCameraCommandQuery
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	host := net.JoinHostPort(profile.IPCameraHost, strconv.Itoa(profile.IPCameraPort))
	return scheme + "://" + host + path
}

// Dispatch posts the command for the action to the camera described by the
// profile and logs the answer chunk by chunk while it streams in.
func (d *Dispatcher) Dispatch(ctx context.Context, action models.ActionMessage, profile models.CameraProfile) (*Response, error) {
	body, err := CommandBody(action)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(string(action.CameraAction), "unsupported").Inc()
		return nil, err
	}

	commandURL := CommandURL(profile)
	log.Log.Info("camera.command.Dispatch(): sending " + string(action.CameraAction) + " to " + commandURL)

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+EncodeAuthentication(profile.CamUser, profile.CamPassword)).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(commandURL)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(string(action.CameraAction), "failed").Inc()
		return nil, &TransportError{URL: commandURL, Err: err}
	}

	rawBody := resp.RawBody()
	defer rawBody.Close()

	text, err := d.streamResponse(rawBody)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(string(action.CameraAction), "failed").Inc()
		return nil, &TransportError{URL: commandURL, Err: err}
	}

	metrics.CommandsTotal.WithLabelValues(string(action.CameraAction), "sent").Inc()
	return &Response{
		URL:        commandURL,
		StatusCode: resp.StatusCode(),
		Body:       text,
	}, nil
}

func (d *Dispatcher) streamResponse(r io.Reader) (string, error) {
	var text strings.Builder
	var pending []byte
	buf := make([]byte, d.chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			var chunk []byte
			chunk, pending = splitUTF8(append(pending, buf[:n]...))
			if len(chunk) > 0 {
				log.Log.Info("Response: " + string(chunk))
				text.Write(chunk)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return text.String(), err
		}
	}
	if len(pending) > 0 {
		log.Log.Info("Response: " + string(pending))
		text.Write(pending)
	}
	return text.String(), nil
}

// splitUTF8 keeps an incomplete multi-byte rune at the end of a chunk for
// the next read.
func splitUTF8(b []byte) ([]byte, []byte) {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return b, nil
			}
			rest := make([]byte, len(b)-i)
			copy(rest, b[i:])
			return b[:i], rest
		}
	}
	return b, nil
}
