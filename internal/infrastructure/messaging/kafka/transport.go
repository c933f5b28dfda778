package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/turtacn/MolViz/pkg/errors"
)

// SecurityConfig holds the TLS and SASL settings shared by producers and
// consumers.
type SecurityConfig struct {
	SASLEnabled   bool   `mapstructure:"sasl_enabled"`
	SASLMechanism string `mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	SASLUsername  string `mapstructure:"sasl_username"`
	SASLPassword  string `mapstructure:"sasl_password"`
	TLSEnabled    bool   `mapstructure:"tls_enabled"`
	TLSCAPath     string `mapstructure:"tls_ca_path"`
}

func (s SecurityConfig) tlsConfig() *tls.Config {
	if !s.TLSEnabled {
		return nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if s.TLSCAPath != "" {
		if pem, err := os.ReadFile(s.TLSCAPath); err == nil {
			pool := x509.NewCertPool()
			pool.AppendCertsFromPEM(pem)
			cfg.RootCAs = pool
		}
	}
	return cfg
}

func (s SecurityConfig) mechanism() (sasl.Mechanism, error) {
	if !s.SASLEnabled {
		return nil, nil
	}
	switch s.SASLMechanism {
	case "PLAIN", "":
		return plain.Mechanism{Username: s.SASLUsername, Password: s.SASLPassword}, nil
	case "SCRAM-SHA-256":
		m, err := scram.Mechanism(scram.SHA256, s.SASLUsername, s.SASLPassword)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to create SASL mechanism")
		}
		return m, nil
	case "SCRAM-SHA-512":
		m, err := scram.Mechanism(scram.SHA512, s.SASLUsername, s.SASLPassword)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to create SASL mechanism")
		}
		return m, nil
	}
	return nil, errors.Newf(errors.CodeValidation, "unsupported SASL mechanism %q", s.SASLMechanism)
}

//Personal.AI order the ending
