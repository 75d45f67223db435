// Package web serves the browser UI for lists.
package web

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/httpstatus"
	"github.com/amonks/lists/listable"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Page routes. Each names a page for auth.Guard and its title.
const (
	routeLogin     = auth.RouteLogin
	routeRegister  = auth.RouteRegister
	routeProfile   = auth.RouteProfile
	routeLists     = "lists"
	routeList      = "list"
	routeListItems = "list-items"
	routeNote      = "note"
)

var routePaths = map[string]string{
	routeLogin:    "/login",
	routeRegister: "/register",
	routeProfile:  "/profile",
	routeLists:    "/",
}

// Options configures the web handler.
type Options struct {
	Service  *listable.Service
	Accounts *auth.Accounts
	Issuer   *auth.Issuer
	Logger   *zap.Logger

	// SecureCookies marks the session cookie as HTTPS only.
	SecureCookies bool

	// SessionTTL is the cookie lifetime. Defaults to auth.DefaultTokenTTL.
	SessionTTL time.Duration
}

// Handler serves the web pages. Requests must pass through auth.Middleware
// so the session cookie is resolved before the handler runs.
type Handler struct {
	service       *listable.Service
	accounts      *auth.Accounts
	issuer        *auth.Issuer
	logger        *zap.Logger
	secureCookies bool
	sessionTTL    time.Duration
	router        *mux.Router
	templates     *templateWrapper
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	h := &Handler{
		service:       opts.Service,
		accounts:      opts.Accounts,
		issuer:        opts.Issuer,
		logger:        logger,
		secureCookies: opts.SecureCookies,
		sessionTTL:    ttl,
		templates:     newTemplateWrapper(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/register", h.handleRegister).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", h.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/profile", h.handleProfile).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/", h.handleLists).Methods(http.MethodGet)
	r.HandleFunc("/lists", h.handleCreateList).Methods(http.MethodPost)
	r.HandleFunc("/list/{id}", h.handleList).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/list/{id}/delete", h.handleDeleteList).Methods(http.MethodPost)
	r.HandleFunc("/list/{id}/favorite", h.handleFavorite).Methods(http.MethodPost)
	r.HandleFunc("/list/{id}/share", h.handleShare).Methods(http.MethodPost)
	r.HandleFunc("/list/{id}/unshare/{user}", h.handleUnshare).Methods(http.MethodPost)
	r.HandleFunc("/list/{id}/items", h.handleItems).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/list/{id}/items/{item}/toggle", h.handleToggleItem).Methods(http.MethodPost)
	r.HandleFunc("/list/{id}/items/{item}/delete", h.handleDeleteItem).Methods(http.MethodPost)
	r.HandleFunc("/note/{id}", h.handleNote).Methods(http.MethodGet, http.MethodPost)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	h.router = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

type selectOption struct {
	Value string
	Label string
}

type favoriteLink struct {
	Name string
	Type listable.Type
	Link string
}

type pageData struct {
	Page  string
	Title string
	User  *listable.User
	Error string

	Form formValues

	TypeOptions    []selectOption
	SubTypeOptions []selectOption
	TypeFilter     string
	Listables      []listable.Listable
	Favorites      []favoriteLink

	Listable     *listable.Listable
	PendingItems []listable.Item
	DoneItems    []listable.Item
	SharedUsers  []listable.User
	ShareOptions []selectOption
	IsOwner      bool
}

type formValues struct {
	Name  string
	Email string
	Type  string
}

// page runs the route guard. It returns the caller's profile, or nil for
// anonymous callers, and false after redirecting.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, route string) (*listable.User, bool) {
	p, loggedIn := auth.FromContext(r.Context())
	if redirect := auth.Guard(route, loggedIn); redirect != "" {
		http.Redirect(w, r, routePaths[redirect], http.StatusSeeOther)
		return nil, false
	}
	if !loggedIn {
		return nil, true
	}
	user, err := h.service.EnsureUser(r.Context(), listable.User{ID: p.UserID, Name: p.Name, Email: p.Email})
	if err != nil {
		h.renderError(w, r, route, nil, err)
		return nil, false
	}
	return user, true
}

func (h *Handler) render(w http.ResponseWriter, status int, route string, data pageData) {
	data.Page = route
	data.Title = listable.FormatTitle(route)
	h.templates.Render(w, status, data)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, route string, user *listable.User, err error) {
	status := httpstatus.For(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("page failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.logger.Debug("page rejected request", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	h.render(w, status, route, pageData{User: user, Error: err.Error()})
}

func (h *Handler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.page(w, r, routeLogin); !ok {
		return
	}
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, routeLogin, pageData{})
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, routeLogin, pageData{Error: "invalid form input"})
		return
	}
	email := trimmedFormValue(r, "email")
	user, err := h.accounts.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		h.render(w, httpstatus.For(err), routeLogin, pageData{Error: err.Error(), Form: formValues{Email: email}})
		return
	}
	h.startSession(w, r, user)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.page(w, r, routeRegister); !ok {
		return
	}
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, routeRegister, pageData{})
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, routeRegister, pageData{Error: "invalid form input"})
		return
	}
	reg := auth.Registration{
		Name:            trimmedFormValue(r, "name"),
		Email:           trimmedFormValue(r, "email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	user, err := h.accounts.Register(r.Context(), reg)
	if err != nil {
		h.render(w, httpstatus.For(err), routeRegister, pageData{
			Error: err.Error(),
			Form:  formValues{Name: reg.Name, Email: reg.Email},
		})
		return
	}
	h.startSession(w, r, user)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *listable.User) {
	token, err := h.issuer.Issue(*user)
	if err != nil {
		h.renderError(w, r, routeLogin, nil, err)
		return
	}
	h.setSession(w, token)
	http.Redirect(w, r, routePaths[routeLists], http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	http.Redirect(w, r, routePaths[routeLogin], http.StatusSeeOther)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeProfile)
	if !ok {
		return
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.render(w, http.StatusBadRequest, routeProfile, pageData{User: user, Error: "invalid form input"})
			return
		}
		if _, err := h.service.UpdateUserName(r.Context(), user.ID, trimmedFormValue(r, "name")); err != nil {
			h.renderError(w, r, routeProfile, user, err)
			return
		}
		http.Redirect(w, r, routePaths[routeProfile], http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, routeProfile, pageData{User: user, Form: formValues{Name: user.Name}})
}

func (h *Handler) handleLists(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeLists)
	if !ok {
		return
	}
	h.renderLists(w, r, user, http.StatusOK, "", formValues{})
}

func (h *Handler) renderLists(w http.ResponseWriter, r *http.Request, user *listable.User, status int, message string, form formValues) {
	filterValue := trimmedQueryValue(r, "type")
	var filter *listable.Type
	if filterValue != "" {
		t := listable.Type(filterValue)
		if !t.IsValid() {
			h.renderError(w, r, routeLists, user, listable.ErrInvalidType)
			return
		}
		filter = &t
	}
	listables, err := h.service.ListablesByType(r.Context(), user.ID, filter)
	if err != nil {
		h.renderError(w, r, routeLists, user, err)
		return
	}
	favorites, err := h.service.Favorites(r.Context(), user.ID)
	if err != nil {
		h.renderError(w, r, routeLists, user, err)
		return
	}
	links := make([]favoriteLink, 0, len(favorites))
	for _, entry := range favorites {
		links = append(links, favoriteLink{Name: entry.Name, Type: entry.Type, Link: listable.FavoriteLink(entry)})
	}
	if form.Type == "" {
		form.Type = filterValue
	}
	h.render(w, status, routeLists, pageData{
		User:        user,
		Error:       message,
		Form:        form,
		TypeOptions: typeOptions(),
		TypeFilter:  filterValue,
		Listables:   listables,
		Favorites:   links,
	})
}

func (h *Handler) handleCreateList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeLists)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderLists(w, r, user, http.StatusBadRequest, "invalid form input", formValues{})
		return
	}
	form := formValues{Name: trimmedFormValue(r, "name"), Type: trimmedFormValue(r, "type")}
	created, err := h.service.Create(r.Context(), user.ID, form.Name, listable.CreateOptions{Type: listable.Type(form.Type)})
	if err != nil {
		h.renderLists(w, r, user, httpstatus.For(err), err.Error(), form)
		return
	}
	http.Redirect(w, r, listablePath(*created), http.StatusSeeOther)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeList)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	l, err := h.service.Listable(r.Context(), user.ID, id)
	if err != nil {
		h.renderError(w, r, routeList, user, err)
		return
	}

	status := http.StatusOK
	message := ""
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.renderError(w, r, routeList, user, httpstatus.ErrBadRequest)
			return
		}
		edited := *l
		edited.Name = trimmedFormValue(r, "name")
		edited.Description = trimmedFormValue(r, "description")
		edited.Type = listable.Type(trimmedFormValue(r, "type"))
		edited.SubType = listable.SubType(trimmedFormValue(r, "subtype"))
		edited.KeepDoneItems = r.FormValue("keepDoneItems") == "on"
		saved, err := h.service.SaveList(r.Context(), user.ID, edited)
		if err == nil {
			http.Redirect(w, r, listablePath(*saved), http.StatusSeeOther)
			return
		}
		status = httpstatus.For(err)
		message = err.Error()
		l = &edited
	}
	h.renderList(w, r, user, l, status, message)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, user *listable.User, l *listable.Listable, status int, message string) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.renderError(w, r, routeList, user, err)
		return
	}
	var shared []listable.User
	var shareOptions []selectOption
	for _, u := range users {
		switch {
		case listable.IsSharedWith(*l, u.ID):
			shared = append(shared, u)
		case u.ID != l.Owner:
			shareOptions = append(shareOptions, selectOption{Value: u.ID, Label: u.DisplayName()})
		}
	}
	h.render(w, status, routeList, pageData{
		User:           user,
		Error:          message,
		TypeOptions:    typeOptions(),
		SubTypeOptions: subTypeOptions(l.Type),
		Listable:       l,
		SharedUsers:    shared,
		ShareOptions:   shareOptions,
		IsOwner:        l.Owner == user.ID,
	})
}

func (h *Handler) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeList)
	if !ok {
		return
	}
	if err := h.service.DeleteListable(r.Context(), user.ID, mux.Vars(r)["id"]); err != nil {
		h.renderError(w, r, routeList, user, err)
		return
	}
	http.Redirect(w, r, routePaths[routeLists], http.StatusSeeOther)
}

func (h *Handler) handleFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeLists)
	if !ok {
		return
	}
	if _, err := h.service.ToggleFavorite(r.Context(), user.ID, mux.Vars(r)["id"]); err != nil {
		h.renderError(w, r, routeLists, user, err)
		return
	}
	http.Redirect(w, r, redirectTarget(r, routePaths[routeLists]), http.StatusSeeOther)
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeList)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, routeList, user, httpstatus.ErrBadRequest)
		return
	}
	id := mux.Vars(r)["id"]
	l, err := h.service.Share(r.Context(), user.ID, id, trimmedFormValue(r, "user"))
	if err != nil {
		current, getErr := h.service.Listable(r.Context(), user.ID, id)
		if getErr != nil {
			h.renderError(w, r, routeList, user, err)
			return
		}
		h.renderList(w, r, user, current, httpstatus.For(err), err.Error())
		return
	}
	http.Redirect(w, r, "/list/"+l.ID, http.StatusSeeOther)
}

func (h *Handler) handleUnshare(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeList)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if _, err := h.service.Unshare(r.Context(), user.ID, vars["id"], vars["user"]); err != nil {
		h.renderError(w, r, routeList, user, err)
		return
	}
	if vars["user"] == user.ID {
		http.Redirect(w, r, routePaths[routeLists], http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/list/"+vars["id"], http.StatusSeeOther)
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeListItems)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	status := http.StatusOK
	message := ""
	name := ""
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.renderError(w, r, routeListItems, user, httpstatus.ErrBadRequest)
			return
		}
		name = trimmedFormValue(r, "name")
		if _, err := h.service.QuickCreateItem(r.Context(), user.ID, id, name); err != nil {
			if !isValidationError(err) {
				h.renderError(w, r, routeListItems, user, err)
				return
			}
			status = httpstatus.For(err)
			message = err.Error()
		} else {
			http.Redirect(w, r, "/list/"+id+"/items", http.StatusSeeOther)
			return
		}
	}

	list, err := h.service.ListWithItems(r.Context(), user.ID, id)
	if err != nil {
		h.renderError(w, r, routeListItems, user, err)
		return
	}
	h.render(w, status, routeListItems, pageData{
		User:         user,
		Error:        message,
		Form:         formValues{Name: name},
		Listable:     &list.Listable,
		PendingItems: list.PendingItems(),
		DoneItems:    list.DoneItems(),
	})
}

func (h *Handler) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeListItems)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	item, err := h.service.Item(r.Context(), user.ID, vars["id"], vars["item"])
	if err != nil {
		h.renderError(w, r, routeListItems, user, err)
		return
	}
	next := listable.StatusDone
	if item.Status == listable.StatusDone {
		next = listable.StatusPending
	}
	if _, err := h.service.SetItemStatus(r.Context(), user.ID, vars["id"], vars["item"], next); err != nil {
		h.renderError(w, r, routeListItems, user, err)
		return
	}
	http.Redirect(w, r, "/list/"+vars["id"]+"/items", http.StatusSeeOther)
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeListItems)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if err := h.service.DeleteItem(r.Context(), user.ID, vars["id"], vars["item"]); err != nil {
		h.renderError(w, r, routeListItems, user, err)
		return
	}
	http.Redirect(w, r, "/list/"+vars["id"]+"/items", http.StatusSeeOther)
}

func (h *Handler) handleNote(w http.ResponseWriter, r *http.Request) {
	user, ok := h.page(w, r, routeNote)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.renderError(w, r, routeNote, user, httpstatus.ErrBadRequest)
			return
		}
		if _, err := h.service.SaveNoteContent(r.Context(), user.ID, id, r.FormValue("content")); err != nil {
			h.renderError(w, r, routeNote, user, err)
			return
		}
		http.Redirect(w, r, "/note/"+id, http.StatusSeeOther)
		return
	}
	note, err := h.service.Listable(r.Context(), user.ID, id)
	if err != nil {
		h.renderError(w, r, routeNote, user, err)
		return
	}
	if !note.IsNote() {
		http.Redirect(w, r, listablePath(*note), http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, routeNote, pageData{User: user, Listable: note})
}

func listablePath(l listable.Listable) string {
	return listable.FavoriteLink(listable.FavoriteEntry{ID: l.ID, Name: l.Name, Type: l.Type})
}

// redirectTarget returns the local path in the "next" form value, or
// fallback.
func redirectTarget(r *http.Request, fallback string) string {
	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}

func isValidationError(err error) bool {
	return errors.Is(err, listable.ErrEmptyName) || errors.Is(err, listable.ErrNameTooLong)
}

func typeOptions() []selectOption {
	types := listable.ValidTypes()
	options := make([]selectOption, 0, len(types))
	for _, t := range types {
		options = append(options, selectOption{Value: string(t), Label: t.Label()})
	}
	return options
}

func subTypeOptions(t listable.Type) []selectOption {
	subTypes := t.SubTypes()
	options := make([]selectOption, 0, len(subTypes)+1)
	options = append(options, selectOption{Value: "", Label: "None"})
	for _, sub := range subTypes {
		options = append(options, selectOption{Value: string(sub), Label: sub.Label()})
	}
	return options
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
