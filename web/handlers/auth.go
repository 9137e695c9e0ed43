package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/fieldpulse/fieldpulse/internal/auth"
)

// AuthHandler serves the login, register and dashboard pages and manages the
// session lifecycle around them.
type AuthHandler struct {
	users     *auth.UserStore
	sessions  *auth.SessionManager
	templates *template.Template
}

// NewAuthHandler creates an AuthHandler. templateGlob points at the page
// templates (login.html, register.html, dashboard.html).
func NewAuthHandler(users *auth.UserStore, sessions *auth.SessionManager, templateGlob string) (*AuthHandler, error) {
	tmpl, err := template.ParseGlob(templateGlob)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{users: users, sessions: sessions, templates: tmpl}, nil
}

// loginPage carries the optional error banner into login.html and
// register.html.
type loginPage struct {
	Error string
}

// Login handles GET and POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "login.html", loginPage{})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	ok, role, err := h.users.Check(username, password)
	if err != nil {
		log.Printf("credential check failed: %v", err)
		h.render(w, "login.html", loginPage{Error: "Invalid Credentials"})
		return
	}
	if !ok {
		h.render(w, "login.html", loginPage{Error: "Invalid Credentials"})
		return
	}

	if err := h.sessions.Establish(w, r, username, role); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to establish session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Register handles GET and POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "register.html", loginPage{})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	created, err := h.users.Add(username, password, role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to register user", err)
		return
	}
	if !created {
		h.render(w, "register.html", loginPage{Error: "User already exists"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// dashboardPage carries the viewer's role into dashboard.html, which hides
// the admin panels from customer_admin users.
type dashboardPage struct {
	UserRole string
}

// Index handles GET /, the dashboard shell.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, "dashboard.html", dashboardPage{UserRole: h.sessions.Role(r)})
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("failed to render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
