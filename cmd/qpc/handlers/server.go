package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/client"
	"github.com/quipucords/qpc/cmd/qpc/config"
	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/logging"
	"github.com/quipucords/qpc/internal/messages"
	"github.com/quipucords/qpc/internal/validate"
)

// ConfigureServer validates and persists the server connection settings.
// No request is made; a bad host surfaces on the next server command.
// Reconfiguring invalidates any stored session token since it may belong
// to a different server.
func ConfigureServer(out io.Writer, host string, port int, useHTTP bool, sslVerify string) error {
	// cobra only checks that --host was given, not that it has a value.
	if err := validate.ValidateRequiredString(host, "host"); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	if err := validate.ValidatePortRange(port); err != nil {
		display.Line(out, messages.Lookup(messages.PortInvalid, port))
		return ErrHandled
	}

	cfg := &config.ServerConfig{
		Host:    host,
		Port:    port,
		UseHTTP: useHTTP,
	}
	if sslVerify != "" {
		if _, err := os.Stat(sslVerify); err != nil {
			display.Line(out, messages.Lookup(messages.SSLBundleNotFound, sslVerify))
			return ErrHandled
		}
		cfg.SSLVerify = &sslVerify
	}

	if err := config.WriteServerConfig(cfg); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	if err := config.DeleteToken(); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	logging.Success("server set to %s:%d", host, port)
	display.Line(out, messages.Lookup(messages.ServerConfigSaved))
	return nil
}

// LoginHandler exchanges a username and prompted password for a session
// token and stores it for subsequent commands.
type LoginHandler struct {
	Base
	spec     RequestSpec
	Username string

	password string
}

// NewLogin builds the handler for `qpc server login`.
func NewLogin(username string) *LoginHandler {
	return &LoginHandler{
		spec: RequestSpec{
			Method:       http.MethodPost,
			Path:         "/token/",
			SuccessCodes: []int{http.StatusOK},
		},
		Username: username,
	}
}

func (h *LoginHandler) Spec() *RequestSpec { return &h.spec }

func (h *LoginHandler) Validate(ctx *Context) error {
	password, err := promptSecret(ctx, "Password: ")
	if err != nil {
		return err
	}
	h.password = password
	return nil
}

func (h *LoginHandler) BuildPayload() (any, error) {
	return map[string]any{
		"username": h.Username,
		"password": h.password,
	}, nil
}

func (h *LoginHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	obj, err := client.ParseObject(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	token, _ := obj["token"].(string)
	if token == "" {
		logging.Error("login response did not include a token")
		return ErrHandled
	}
	if err := config.WriteToken(token); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	logging.Success("session opened for %s", h.Username)
	display.Line(ctx.Out, messages.Lookup(messages.LoginSuccess))
	return nil
}

// Logout ends the server session and removes the stored token. The server
// call is best effort: the local token is removed and logout succeeds even
// when the server is unreachable, so logout is always idempotent.
func Logout(ctx *Context) error {
	if config.ReadToken() != "" && ctx.Client != nil {
		resp, err := ctx.Client.Post("/users/logout/", nil)
		if err != nil {
			logging.Warn("logout request failed: %v", err)
		} else if resp.IsError() {
			logging.Warn("logout request returned %d", resp.StatusCode())
		}
	}

	if err := config.DeleteToken(); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	display.Line(ctx.Out, messages.Lookup(messages.LogoutSuccess))
	return nil
}

// ServerStatusHandler fetches the server's build and version document,
// printing it or writing it to a file.
type ServerStatusHandler struct {
	Base
	spec       RequestSpec
	OutputFile string
}

// NewServerStatus builds the handler for `qpc server status`.
func NewServerStatus(outputFile string) *ServerStatusHandler {
	return &ServerStatusHandler{
		spec: RequestSpec{
			Method:       http.MethodGet,
			Path:         "/status/",
			SuccessCodes: []int{http.StatusOK},
		},
		OutputFile: outputFile,
	}
}

func (h *ServerStatusHandler) Spec() *RequestSpec { return &h.spec }

func (h *ServerStatusHandler) Validate(ctx *Context) error {
	if h.OutputFile == "" {
		return nil
	}
	dir := filepath.Dir(h.OutputFile)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fail(ctx, messages.OutputDirNotExist, dir)
	}
	return nil
}

func (h *ServerStatusHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	status, err := client.ParseObject(resp)
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}

	if h.OutputFile == "" {
		display.JSON(ctx.Out, status)
		return nil
	}

	data, err := json.MarshalIndent(status, "", "    ")
	if err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	if err := os.WriteFile(h.OutputFile, append(data, '\n'), 0o644); err != nil {
		logging.Error("%v", err)
		return ErrHandled
	}
	display.Line(ctx.Out, messages.Lookup(messages.StatusWritten, h.OutputFile))
	return nil
}
