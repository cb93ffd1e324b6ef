package ai

import (
	"fmt"
	"net/url"
	"strings"
)

const badgeBaseURL = "https://img.shields.io/badge/"

// Badge is a shields.io technology badge.
type Badge struct {
	Tech  string
	Label string
	Color string
	Logo  string
}

type badgeStyle struct {
	label string
	color string
	logo  string
}

var knownBadges = map[string]badgeStyle{
	"react":         {"React", "20232A", "react"},
	"node.js":       {"Node.js", "339933", "nodedotjs"},
	"express":       {"Express", "000000", "express"},
	"postgresql":    {"PostgreSQL", "4169E1", "postgresql"},
	"redis":         {"Redis", "DC382D", "redis"},
	"docker":        {"Docker", "2496ED", "docker"},
	"kubernetes":    {"Kubernetes", "326CE5", "kubernetes"},
	"flask":         {"Flask", "000000", "flask"},
	"django":        {"Django", "092E20", "django"},
	"fastapi":       {"FastAPI", "009688", "fastapi"},
	"python":        {"Python", "3776AB", "python"},
	"javascript":    {"JavaScript", "F7DF1E", "javascript"},
	"typescript":    {"TypeScript", "3178C6", "typescript"},
	"go":            {"Go", "00ADD8", "go"},
	"rust":          {"Rust", "000000", "rust"},
	"java":          {"Java", "ED8B00", "openjdk"},
	"spring boot":   {"Spring Boot", "6DB33F", "springboot"},
	"ruby on rails": {"Rails", "CC0000", "rubyonrails"},
	"vue.js":        {"Vue.js", "4FC08D", "vuedotjs"},
	"angular":       {"Angular", "DD0031", "angular"},
	"next.js":       {"Next.js", "000000", "nextdotjs"},
	"mongodb":       {"MongoDB", "47A248", "mongodb"},
	"mysql":         {"MySQL", "4479A1", "mysql"},
	"graphql":       {"GraphQL", "E10098", "graphql"},
	"tailwind css":  {"Tailwind CSS", "06B6D4", "tailwindcss"},
	"html":          {"HTML5", "E34F26", "html5"},
	"css":           {"CSS3", "1572B6", "css3"},
	"firebase":      {"Firebase", "FFCA28", "firebase"},
}

var badgeAliases = map[string]string{
	"node":     "node.js",
	"nodejs":   "node.js",
	"postgres": "postgresql",
	"vue":      "vue.js",
	"vuejs":    "vue.js",
	"nextjs":   "next.js",
	"golang":   "go",
	"html5":    "html",
	"css3":     "css",
	"rails":    "ruby on rails",
	"tailwind": "tailwind css",
	"k8s":      "kubernetes",
}

const genericBadgeColor = "555555"

// BadgeFor returns the badge for tech, falling back to a generic style with
// a derived logo slug for technologies outside the known table.
func BadgeFor(tech string) Badge {
	name := strings.TrimSpace(tech)
	key := strings.ToLower(name)
	if alias, ok := badgeAliases[key]; ok {
		key = alias
	}

	if style, ok := knownBadges[key]; ok {
		return Badge{Tech: name, Label: style.label, Color: style.color, Logo: style.logo}
	}
	return Badge{Tech: name, Label: name, Color: genericBadgeColor, Logo: logoSlug(name)}
}

// BadgesFor returns one badge per distinct, non-blank technology in stack order.
func BadgesFor(stack []string) []Badge {
	seen := make(map[string]bool, len(stack))
	badges := make([]Badge, 0, len(stack))
	for _, tech := range stack {
		b := BadgeFor(tech)
		if b.Tech == "" {
			continue
		}
		k := strings.ToLower(b.Label)
		if seen[k] {
			continue
		}
		seen[k] = true
		badges = append(badges, b)
	}
	return badges
}

func (b Badge) URL() string {
	return fmt.Sprintf("%s%s-%s?style=for-the-badge&logo=%s&logoColor=white",
		badgeBaseURL, escapeBadgeText(b.Label), b.Color, url.QueryEscape(b.Logo))
}

// Markdown renders the badge as an image reference.
func (b Badge) Markdown() string {
	return fmt.Sprintf("![%s](%s)", b.Tech, b.URL())
}

// shields.io reads "-" and "_" as separators, so literal ones are doubled.
func escapeBadgeText(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")
	return url.PathEscape(s)
}

func logoSlug(name string) string {
	r := strings.NewReplacer(".", "dot", "+", "plus", "#", "sharp")
	lowered := r.Replace(strings.ToLower(name))

	var sb strings.Builder
	for _, c := range lowered {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
