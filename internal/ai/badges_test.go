package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		name string
		tech string
		url  string
	}{
		{
			name: "known technology",
			tech: "Node.js",
			url:  "https://img.shields.io/badge/Node.js-339933?style=for-the-badge&logo=nodedotjs&logoColor=white",
		},
		{
			name: "alias",
			tech: "postgres",
			url:  "https://img.shields.io/badge/PostgreSQL-4169E1?style=for-the-badge&logo=postgresql&logoColor=white",
		},
		{
			name: "unknown technology falls back",
			tech: "Socket.IO",
			url:  "https://img.shields.io/badge/Socket.IO-555555?style=for-the-badge&logo=socketdotio&logoColor=white",
		},
		{
			name: "dashes and spaces are escaped",
			tech: "shadcn-ui kit",
			url:  "https://img.shields.io/badge/shadcn--ui%20kit-555555?style=for-the-badge&logo=shadcnuikit&logoColor=white",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.url, BadgeFor(tt.tech).URL())
		})
	}
}

func TestBadgesFor(t *testing.T) {
	badges := BadgesFor([]string{"React", "", "react", "Docker", "Go", "golang"})

	assert.Len(t, badges, 3)
	assert.Equal(t, "React", badges[0].Tech)
	assert.Equal(t, "Docker", badges[1].Label)
	assert.Equal(t, "Go", badges[2].Label)
	assert.Equal(t,
		"![Docker](https://img.shields.io/badge/Docker-2496ED?style=for-the-badge&logo=docker&logoColor=white)",
		badges[1].Markdown())
}
