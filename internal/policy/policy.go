// Package policy implements the host security policy that mediates turning
// text into executable script.
package policy

import (
	"fmt"
	"strings"

	"github.com/flarebyte/ngc-helper/internal/config"
)

// Script is text a policy has accepted for evaluation.
type Script struct {
	text string
}

// String returns the accepted text. It is what gets cached as the sandboxed
// artifact.
func (s Script) String() string { return s.text }

// Policy creates trusted scripts.
type Policy interface {
	Name() string
	CreateScript(text string) (Script, error)
}

// RejectedError reports why a policy refused a script.
type RejectedError struct {
	Policy string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("policy %s rejected script: %s", e.Policy, e.Reason)
}

// New returns the policy described by cfg, or nil when none is configured.
func New(cfg *config.Policy) Policy {
	if cfg == nil {
		return nil
	}
	name := cfg.Name
	if name == "" {
		name = config.DefaultPolicyName
	}
	deny := make([]string, 0, len(cfg.Deny))
	for _, d := range cfg.Deny {
		if d = strings.TrimSpace(d); d != "" {
			deny = append(deny, d)
		}
	}
	return &hostPolicy{name: name, deny: deny, maxSourceBytes: cfg.MaxSourceBytes}
}

type hostPolicy struct {
	name           string
	deny           []string
	maxSourceBytes int
}

func (p *hostPolicy) Name() string { return p.name }

func (p *hostPolicy) CreateScript(text string) (Script, error) {
	if p.maxSourceBytes > 0 && len(text) > p.maxSourceBytes {
		return Script{}, &RejectedError{
			Policy: p.name,
			Reason: fmt.Sprintf("source is %d bytes (max %d)", len(text), p.maxSourceBytes),
		}
	}
	for _, token := range p.deny {
		if strings.Contains(text, token) {
			return Script{}, &RejectedError{Policy: p.name, Reason: fmt.Sprintf("denied token %q", token)}
		}
	}
	return Script{text: text}, nil
}
