package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	"github.com/rafabene/medfy-backend/internal/infrastructure/i18n"
)

func TestNewProblem(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fsys := fstest.MapFS{
		"en.json":    &fstest.MapFile{Data: []byte(`{"error.not_found.title": "Not found", "error.not_found.detail": "{{.Resource}} not found"}`)},
		"pt-BR.json": &fstest.MapFile{Data: []byte(`{"error.not_found.title": "Não encontrado", "error.not_found.detail": "{{.Resource}} não encontrado"}`)},
	}
	service, err := i18n.NewService(fsys, "pt-BR")
	if err != nil {
		t.Fatalf("failed to initialize i18n service: %v", err)
	}

	newRouter := func(setup func(c *gin.Context)) *gin.Engine {
		router := gin.New()
		router.GET("/documents/:id", func(c *gin.Context) {
			setup(c)
			problem := NewProblem(c, "/problems/not-found", http.StatusNotFound,
				"error.not_found.title", "error.not_found.detail",
				map[string]interface{}{"Resource": "Documento"})
			AbortWithProblem(c, problem.Status, problem)
		})
		return router
	}

	t.Run("preenche os campos traduzidos e responde como problem+json", func(t *testing.T) {
		router := newRouter(func(c *gin.Context) {
			c.Set(I18nServiceContextKey, service)
			c.Set(LanguageContextKey, "pt-BR")
			c.Set(BaseURLContextKey, "https://api.medfy.test")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/documents/42", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("esperava status 404, obteve %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != problems.ProblemMediaType {
			t.Errorf("esperava Content-Type '%s', obteve '%s'", problems.ProblemMediaType, ct)
		}

		var body problems.Problem
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("corpo inválido: %v", err)
		}
		if body.Type != "https://api.medfy.test/problems/not-found" {
			t.Errorf("tipo inesperado: '%s'", body.Type)
		}
		if body.Title != "Não encontrado" {
			t.Errorf("título inesperado: '%s'", body.Title)
		}
		if body.Detail != "Documento não encontrado" {
			t.Errorf("detalhe inesperado: '%s'", body.Detail)
		}
		if body.Status != http.StatusNotFound {
			t.Errorf("esperava status 404 no corpo, obteve %d", body.Status)
		}
		if body.Instance != "/documents/42" {
			t.Errorf("instância inesperada: '%s'", body.Instance)
		}
	})

	t.Run("sem contexto usa URL padrão e as próprias chaves", func(t *testing.T) {
		router := newRouter(func(c *gin.Context) {})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/documents/7", nil)
		router.ServeHTTP(w, req)

		var body problems.Problem
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("corpo inválido: %v", err)
		}
		if body.Type != defaultBaseURL+"/problems/not-found" {
			t.Errorf("tipo inesperado: '%s'", body.Type)
		}
		if body.Title != "error.not_found.title" {
			t.Errorf("esperava a chave como título, obteve '%s'", body.Title)
		}
	})
}
