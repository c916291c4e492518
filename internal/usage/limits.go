package usage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

// Limits is a plan file:
//
//	default_limit: 1000
//	tenants:
//	  acme: 50000
//	  globex: 0 # unlimited
type Limits struct {
	DefaultLimit int64            `yaml:"default_limit"`
	Tenants      map[string]int64 `yaml:"tenants"`
}

// LoadLimits decodes and validates a limits document. Unknown fields are
// rejected so typos do not silently drop a limit.
func LoadLimits(r io.Reader) (Limits, error) {
	var l Limits

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return Limits{}, errors.Join(ErrInvalidLimits, err)
	}

	if l.DefaultLimit < 0 {
		return Limits{}, fmt.Errorf("%w: default_limit %d", ErrInvalidLimits, l.DefaultLimit)
	}
	for id, limit := range l.Tenants {
		if !tenant.ValidID(id) {
			return Limits{}, fmt.Errorf("%w: tenant id %q", ErrInvalidLimits, id)
		}
		if limit < 0 {
			return Limits{}, fmt.Errorf("%w: tenant %q limit %d", ErrInvalidLimits, id, limit)
		}
	}
	return l, nil
}

// LoadLimitsFile reads limits from path.
func LoadLimitsFile(path string) (Limits, error) {
	f, err := os.Open(path)
	if err != nil {
		return Limits{}, errors.Join(ErrInvalidLimits, err)
	}
	defer f.Close()

	return LoadLimits(f)
}
