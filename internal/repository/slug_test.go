package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go", "go"},
		{"  Distributed Systems  ", "distributed-systems"},
		{"gRPC_v1.2", "grpc-v1-2"},
		{"a - - b", "a-b"},
		{"trailing dots...", "trailing-dots"},
		{"性能调优", "性能调优"},
		{"Redis 实战", "redis-实战"},
		{"!!!", ""},
		{"-leading", "leading"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, slugify(c.in), "slugify(%q)", c.in)
	}
}
