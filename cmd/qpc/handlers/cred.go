package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"github.com/quipucords/qpc/cmd/qpc/display"
	"github.com/quipucords/qpc/internal/messages"
	"github.com/quipucords/qpc/internal/validate"
)

// credentialsPath is the credential collection endpoint.
const credentialsPath = "/credentials/"

// CredOptions carries the credential flag values shared by add and edit.
// The secret fields are booleans: a set flag means "collect this secret
// from the terminal", never a value passed on the command line.
type CredOptions struct {
	Name           string
	CredType       string
	Username       string
	Password       bool
	SSHKeyfile     string
	SSHPassphrase  bool
	BecomeMethod   string
	BecomeUser     string
	BecomePassword bool
}

// validateKeyfile checks that a provided SSH key file path is absolute and
// points at an existing file.
func validateKeyfile(ctx *Context, path string) error {
	if !filepath.IsAbs(path) {
		return fail(ctx, messages.CredKeyfileNotAbsolute, path)
	}
	if _, err := os.Stat(path); err != nil {
		return fail(ctx, messages.CredKeyfileNotFound, path)
	}
	return nil
}

// CredAddHandler creates a new credential.
type CredAddHandler struct {
	Base
	spec    RequestSpec
	Options CredOptions

	password       string
	sshPassphrase  string
	becomePassword string
}

// NewCredAdd builds the handler for `qpc cred add`.
func NewCredAdd(opts CredOptions) *CredAddHandler {
	return &CredAddHandler{
		spec: RequestSpec{
			Method:       http.MethodPost,
			Path:         credentialsPath,
			SuccessCodes: []int{http.StatusCreated},
		},
		Options: opts,
	}
}

func (h *CredAddHandler) Spec() *RequestSpec { return &h.spec }

func (h *CredAddHandler) Validate(ctx *Context) error {
	o := &h.Options

	if err := validate.ValidateName(o.Name); err != nil {
		return fail(ctx, messages.NameInvalid, o.Name)
	}
	if o.CredType == "" {
		return fail(ctx, messages.CredTypeRequired)
	}
	if !validate.IsValidSourceType(o.CredType) {
		return fail(ctx, messages.CredTypeInvalid, o.CredType)
	}

	if o.CredType != "network" {
		switch {
		case o.SSHKeyfile != "":
			return fail(ctx, messages.CredNetworkOnly, "--sshkeyfile")
		case o.SSHPassphrase:
			return fail(ctx, messages.CredNetworkOnly, "--sshpassphrase")
		case o.BecomeMethod != "" || o.BecomeUser != "" || o.BecomePassword:
			return fail(ctx, messages.CredNetworkOnly, "--become-method")
		}
		if !o.Password {
			return fail(ctx, messages.CredPasswordRequired, o.CredType)
		}
	} else if !o.Password && o.SSHKeyfile == "" {
		return fail(ctx, messages.CredSecretRequired)
	}

	if o.SSHKeyfile != "" {
		if err := validateKeyfile(ctx, o.SSHKeyfile); err != nil {
			return err
		}
	}
	if o.BecomeMethod != "" && !validate.IsValidBecomeMethod(o.BecomeMethod) {
		return fail(ctx, messages.CredBecomeInvalid, o.BecomeMethod,
			validate.SetString(validate.BecomeMethods))
	}

	var err error
	if o.Password {
		if h.password, err = promptSecret(ctx, "Password: "); err != nil {
			return err
		}
	}
	if o.SSHPassphrase {
		if h.sshPassphrase, err = promptSecret(ctx, "SSH passphrase: "); err != nil {
			return err
		}
	}
	if o.BecomePassword {
		if h.becomePassword, err = promptSecret(ctx, "Become password: "); err != nil {
			return err
		}
	}
	return nil
}

func (h *CredAddHandler) BuildPayload() (any, error) {
	o := &h.Options

	// The password and ssh_keyfile keys are always present so the server
	// sees an explicit null for whichever secret was not supplied.
	payload := map[string]any{
		"name":        o.Name,
		"cred_type":   o.CredType,
		"username":    o.Username,
		"password":    nil,
		"ssh_keyfile": nil,
	}
	if o.Password {
		payload["password"] = h.password
	}
	if o.SSHKeyfile != "" {
		payload["ssh_keyfile"] = o.SSHKeyfile
	}
	if o.SSHPassphrase {
		payload["ssh_passphrase"] = h.sshPassphrase
	}
	if o.BecomeMethod != "" {
		payload["become_method"] = o.BecomeMethod
	}
	if o.BecomeUser != "" {
		payload["become_user"] = o.BecomeUser
	}
	if o.BecomePassword {
		payload["become_password"] = h.becomePassword
	}
	return payload, nil
}

func (h *CredAddHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceAdded, "Credential", h.Options.Name))
	return nil
}

// CredEditHandler updates an existing credential in place. Only the flags
// the operator actually set are sent, so an edit never clobbers fields it
// did not mention.
type CredEditHandler struct {
	Base
	spec    RequestSpec
	Options CredOptions

	// Changed records which flags were set on the command line, keyed by
	// flag name.
	Changed map[string]bool

	password       string
	sshPassphrase  string
	becomePassword string
}

// NewCredEdit builds the handler for `qpc cred edit`.
func NewCredEdit(opts CredOptions, changed map[string]bool) *CredEditHandler {
	return &CredEditHandler{
		spec: RequestSpec{
			Method:       http.MethodPatch,
			Path:         credentialsPath,
			SuccessCodes: []int{http.StatusOK},
		},
		Options: opts,
		Changed: changed,
	}
}

func (h *CredEditHandler) Spec() *RequestSpec { return &h.spec }

// credEditFlags are the flags that constitute an actual edit.
var credEditFlags = []string{
	"username", "password", "sshkeyfile", "sshpassphrase",
	"become-method", "become-user", "become-password",
}

func (h *CredEditHandler) Validate(ctx *Context) error {
	o := &h.Options

	edited := false
	for _, flag := range credEditFlags {
		if h.Changed[flag] {
			edited = true
			break
		}
	}
	if !edited {
		return fail(ctx, messages.EditNoArgs, "credential", o.Name)
	}

	if h.Changed["sshkeyfile"] {
		if err := validateKeyfile(ctx, o.SSHKeyfile); err != nil {
			return err
		}
	}
	if h.Changed["become-method"] && !validate.IsValidBecomeMethod(o.BecomeMethod) {
		return fail(ctx, messages.CredBecomeInvalid, o.BecomeMethod,
			validate.SetString(validate.BecomeMethods))
	}

	found, id, err := resolveOne(ctx, credentialsPath, o.Name)
	if err != nil {
		return err
	}
	if !found {
		return fail(ctx, messages.DoesNotExist, "Credential", o.Name)
	}
	h.spec.Path = fmt.Sprintf("%s%d/", credentialsPath, id)

	if o.Password {
		if h.password, err = promptSecret(ctx, "Password: "); err != nil {
			return err
		}
	}
	if o.SSHPassphrase {
		if h.sshPassphrase, err = promptSecret(ctx, "SSH passphrase: "); err != nil {
			return err
		}
	}
	if o.BecomePassword {
		if h.becomePassword, err = promptSecret(ctx, "Become password: "); err != nil {
			return err
		}
	}
	return nil
}

func (h *CredEditHandler) BuildPayload() (any, error) {
	o := &h.Options

	payload := map[string]any{"name": o.Name}
	if h.Changed["username"] {
		payload["username"] = o.Username
	}
	// An empty answer to a secret prompt means "keep the stored secret";
	// the key is omitted so the server leaves it untouched.
	if h.Changed["password"] && h.password != "" {
		payload["password"] = h.password
	}
	if h.Changed["sshkeyfile"] {
		payload["ssh_keyfile"] = o.SSHKeyfile
	}
	if h.Changed["sshpassphrase"] && h.sshPassphrase != "" {
		payload["ssh_passphrase"] = h.sshPassphrase
	}
	if h.Changed["become-method"] {
		payload["become_method"] = o.BecomeMethod
	}
	if h.Changed["become-user"] {
		payload["become_user"] = o.BecomeUser
	}
	if h.Changed["become-password"] && h.becomePassword != "" {
		payload["become_password"] = h.becomePassword
	}
	return payload, nil
}

func (h *CredEditHandler) HandleSuccess(ctx *Context, resp *resty.Response) error {
	display.Line(ctx.Out, messages.Lookup(messages.ResourceUpdated, "Credential", h.Options.Name))
	return nil
}
