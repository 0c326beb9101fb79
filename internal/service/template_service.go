// internal/service/template_service.go
package service

import (
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/osteele/liquid"

	appErrors "github.com/unclebandit/coursemail-backend/internal/errors"
	"github.com/unclebandit/coursemail-backend/internal/repository"
)

// TemplateService resolves named templates and renders them with Liquid.
// A persisted override always wins over the bundled default file.
// Liquid is data substitution only; template content never executes
// caller-supplied code.
type TemplateService struct {
	Repo   repository.TemplateRepositoryInterface
	Dir    string // bundled template directory
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

const templateExt = ".liquid"

func NewTemplateService(repo repository.TemplateRepositoryInterface, dir string) *TemplateService {
	return &TemplateService{
		Repo:   repo,
		Dir:    dir,
		engine: liquid.NewEngine(),
	}
}

// Resolve returns the template content for a name: the DB override if one
// exists, otherwise the bundled <dir>/<name>.liquid file. A repository
// error falls through to the bundled file so a flaky DB does not block
// sends that have a default.
func (ts *TemplateService) Resolve(name string) (string, error) {
	override, err := ts.Repo.GetByName(name)
	if err != nil {
		log.Println("⚠️ template lookup failed, falling back to bundled file:", err)
	}
	if override != nil {
		return override.Content, nil
	}

	content, err := os.ReadFile(filepath.Join(ts.Dir, name+templateExt))
	if err != nil {
		if os.IsNotExist(err) {
			return "", appErrors.NewTemplateNotFound(name)
		}
		return "", err
	}
	return string(content), nil
}

// Render compiles the content against the context. Parsed templates are
// cached by name and content hash, so an updated override re-parses.
func (ts *TemplateService) Render(name, content string, ctx map[string]interface{}) (string, error) {
	key := fmt.Sprintf("%s:%x", name, md5.Sum([]byte(content)))
	if cached, ok := ts.cache.Load(key); ok {
		return cached.(*liquid.Template).RenderString(ctx)
	}

	tpl, err := ts.engine.ParseString(content)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	ts.cache.Store(key, tpl)

	return tpl.RenderString(ctx)
}

// ClearCache drops all parsed templates.
func (ts *TemplateService) ClearCache() {
	ts.cache = sync.Map{}
}
