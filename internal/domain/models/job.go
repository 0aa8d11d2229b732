package models

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultDepartmentTitle = "General"
	defaultJobType         = "FULL TIME"
)

type Department struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

type Job struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Department  *Department `json:"department"`
	Location    *Location   `json:"location"`
	Type        *string     `json:"type"`
	ApplyURL    string      `json:"applyUrl"`
	HostedURL   *string     `json:"hostedUrl"`
	Company     string      `json:"company"`
}

func (j Job) DepartmentTitle() string {
	if j.Department == nil || j.Department.Title == "" {
		return defaultDepartmentTitle
	}
	return j.Department.Title
}

func (j Job) TypeLabel() string {
	if j.Type == nil || *j.Type == "" {
		return defaultJobType
	}
	return *j.Type
}

func (j Job) LocationLine() string {
	if j.Location == nil {
		return ""
	}
	var parts []string
	for _, part := range []string{j.Location.City, j.Location.State} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// ShareURL prefers the hosted posting page and falls back to the local detail route.
func (j Job) ShareURL(fallbackBase string) string {
	if j.HostedURL != nil && *j.HostedURL != "" {
		return *j.HostedURL
	}
	return strings.TrimRight(fallbackBase, "/") + "/jobs/" + strconv.Itoa(j.ID)
}

// ApplyLink fills template with the job id; the job's own applyUrl is used when
// template is empty.
func (j Job) ApplyLink(template string) string {
	if template == "" {
		return j.ApplyURL
	}
	return fmt.Sprintf(template, j.ID)
}

func (j Job) HasDepartment(id int) bool {
	return j.Department != nil && j.Department.ID == id
}
