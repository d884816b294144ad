package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed web/templates/*.html web/static
var webFS embed.FS

const (
	pageTemplate = "random_forest.html"
	staticDir    = "web/static"
)

func parsePage() (*template.Template, error) {
	return template.ParseFS(webFS, "web/templates/"+pageTemplate)
}

// subDir returns dir of fsys as its own file system. Unlike fs.Sub it fails
// when dir does not exist.
func subDir(fsys fs.FS, dir string) (fs.FS, error) {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return fs.Sub(fsys, dir)
}

type pageData struct {
	ModelLoaded  bool
	ModelVersion string
	FeatureNames []string
	XLabel       string
	YLabel       string
	FeedEnabled  bool
}
