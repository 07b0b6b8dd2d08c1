package eatery

import (
	"os"
	"strings"
)

const UP = "UP"

type Health struct {
	Status   string `json:"status"`
	HostName string `json:"hostName"`
	Subject  string `json:"subject"`
}

type AppInfo struct {
	Build BuildInfo `json:"build"`
}

type BuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Tag     string `json:"tag"`
}

// DefaultHandlers serves health and build info under the subject's path.
type DefaultHandlers struct {
	Subject string
}

func (h *DefaultHandlers) Register(r Router) {
	basePath := ""
	if h.Subject != "" {
		basePath = "/" + strings.Join(strings.Split(h.Subject, "."), "/")
	}

	r.RegisterJson("GET", basePath+"/health", h.Health)
	r.RegisterJson("GET", basePath+"/info", h.AppInfo)
	r.RegisterJson("GET", basePath+"/monitoring", h.Monitoring)
}

func (h *DefaultHandlers) Health(ctx *Context) (*Health, error) {
	return &Health{Status: UP, HostName: hostname, Subject: h.Subject}, nil
}

func (h *DefaultHandlers) Monitoring(ctx *Context) (*Monitoring, error) {
	return DoMonitoringCheck(h.Subject), nil
}

func (h *DefaultHandlers) AppInfo(ctx *Context) (*AppInfo, error) {
	return &AppInfo{Build: BuildInfo{
		Version: os.Getenv("BUILD_VERSION"),
		Date:    os.Getenv("BUILD_DATE"),
		Tag:     os.Getenv("BUILD_TAG"),
	}}, nil
}
