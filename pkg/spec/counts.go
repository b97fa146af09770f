package spec

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Counts is a sparse fixture or fitting tally keyed by type. A key is
// present only while its count is positive.
type Counts map[string]int

// Set stores n for key, removing the key when n <= 0.
func (c *Counts) Set(key string, n int) {
	if n <= 0 {
		if *c != nil {
			delete(*c, key)
		}
		return
	}
	if *c == nil {
		*c = make(Counts)
	}
	(*c)[key] = n
}

// Add adjusts the count for key by delta.
func (c *Counts) Add(key string, delta int) {
	var cur int
	if *c != nil {
		cur = (*c)[key]
	}
	c.Set(key, cur+delta)
}

// Get returns the count for key (0 when absent).
func (c Counts) Get(key string) int {
	return c[key]
}

// Keys returns the present keys in sorted order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

func (c *Counts) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]int
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return c.fill(raw)
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.fill(raw)
}

func (c *Counts) fill(raw map[string]int) error {
	*c = nil
	for k, n := range raw {
		if n < 0 {
			return fmt.Errorf("count for %q must be non-negative, got %d", k, n)
		}
		c.Set(k, n)
	}
	return nil
}
