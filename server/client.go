package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/events"
	"github.com/amonks/lists/listable"
	"github.com/gorilla/websocket"
)

// Client calls the lists JSON API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lists error: %s", e.Message)
}

// NewClient creates a client for the given address or URL. The token may be
// empty for register and login.
func NewClient(addr, token string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{baseURL: baseURL, token: token, client: &http.Client{}}
}

// BaseURL returns the URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	copied := *c
	copied.token = token
	return &copied
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, reg auth.Registration) (SessionResponse, error) {
	var response SessionResponse
	err := c.do(ctx, http.MethodPost, "/api/register", reg, &response)
	return response, err
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (SessionResponse, error) {
	var response SessionResponse
	err := c.do(ctx, http.MethodPost, "/api/login", LoginRequest{Email: email, Password: password}, &response)
	return response, err
}

// Me returns the caller's profile.
func (c *Client) Me(ctx context.Context) (listable.User, error) {
	var user listable.User
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &user)
	return user, err
}

// UpdateMe changes the caller's profile fields that are not nil.
func (c *Client) UpdateMe(ctx context.Context, req UpdateMeRequest) (listable.User, error) {
	var user listable.User
	err := c.do(ctx, http.MethodPatch, "/api/me", req, &user)
	return user, err
}

// UpdateLocation sets the caller's location from coordinates.
func (c *Client) UpdateLocation(ctx context.Context, lat, lon float64) (listable.User, error) {
	var user listable.User
	err := c.do(ctx, http.MethodPut, "/api/me/location", LocationRequest{Latitude: lat, Longitude: lon}, &user)
	return user, err
}

// Users returns every profile.
func (c *Client) Users(ctx context.Context) ([]listable.User, error) {
	var response UsersResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &response); err != nil {
		return nil, err
	}
	return response.Users, nil
}

// Types describes the listable types.
func (c *Client) Types(ctx context.Context) ([]listable.TypeInfo, error) {
	var response TypesResponse
	if err := c.do(ctx, http.MethodGet, "/api/types", nil, &response); err != nil {
		return nil, err
	}
	return response.Types, nil
}

// Listables returns the caller's listables, optionally of one type.
func (c *Client) Listables(ctx context.Context, t *listable.Type) ([]listable.Listable, error) {
	path := "/api/listables"
	if t != nil {
		path += "?type=" + url.QueryEscape(string(*t))
	}
	var response ListablesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Listables, nil
}

// Listable returns one listable.
func (c *Client) Listable(ctx context.Context, id string) (listable.Listable, error) {
	var l listable.Listable
	err := c.do(ctx, http.MethodGet, listablePath(id), nil, &l)
	return l, err
}

// CreateListable creates a list or note.
func (c *Client) CreateListable(ctx context.Context, req ListableRequest) (listable.Listable, error) {
	var l listable.Listable
	err := c.do(ctx, http.MethodPost, "/api/listables", req, &l)
	return l, err
}

// SaveListable updates a listable's editable fields.
func (c *Client) SaveListable(ctx context.Context, id string, req ListableRequest) (listable.Listable, error) {
	var l listable.Listable
	err := c.do(ctx, http.MethodPut, listablePath(id), req, &l)
	return l, err
}

// DeleteListable deletes a listable the caller owns.
func (c *Client) DeleteListable(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, listablePath(id), nil, &emptyResponse{})
}

// SaveNote replaces the content of a note.
func (c *Client) SaveNote(ctx context.Context, id, content string) (listable.Listable, error) {
	var l listable.Listable
	err := c.do(ctx, http.MethodPut, listablePath(id)+"/note", NoteRequest{Content: content}, &l)
	return l, err
}

// UpdateListablesPriorities reorders the caller's listables.
func (c *Client) UpdateListablesPriorities(ctx context.Context, updates []listable.PriorityUpdate) error {
	return c.do(ctx, http.MethodPost, "/api/listables/priorities", PrioritiesRequest{Updates: updates}, &emptyResponse{})
}

// ToggleFavorite flips the favorite mark and returns the new state.
func (c *Client) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var response FavoriteResponse
	if err := c.do(ctx, http.MethodPost, listablePath(id)+"/favorite", nil, &response); err != nil {
		return false, err
	}
	return response.Favorite, nil
}

// Favorites returns the caller's favorites.
func (c *Client) Favorites(ctx context.Context) ([]listable.FavoriteEntry, error) {
	var response FavoritesResponse
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, &response); err != nil {
		return nil, err
	}
	return response.Favorites, nil
}

// Share gives another user access to a listable.
func (c *Client) Share(ctx context.Context, id, userID string) (listable.Listable, error) {
	var l listable.Listable
	err := c.do(ctx, http.MethodPost, listablePath(id)+"/share/"+url.PathEscape(userID), nil, &l)
	return l, err
}

// Unshare revokes a user's access to a listable.
func (c *Client) Unshare(ctx context.Context, id, userID string) (listable.Listable, error) {
	var l listable.Listable
	err := c.do(ctx, http.MethodDelete, listablePath(id)+"/share/"+url.PathEscape(userID), nil, &l)
	return l, err
}

// ListWithItems returns a list and its items.
func (c *Client) ListWithItems(ctx context.Context, id string) (listable.ListWithItems, error) {
	var list listable.ListWithItems
	err := c.do(ctx, http.MethodGet, listablePath(id)+"/items", nil, &list)
	return list, err
}

// CreateItem appends a pending item to a list.
func (c *Client) CreateItem(ctx context.Context, listID, name string) (listable.Item, error) {
	var item listable.Item
	err := c.do(ctx, http.MethodPost, listablePath(listID)+"/items", ItemRequest{Name: name}, &item)
	return item, err
}

// SaveItem updates an item.
func (c *Client) SaveItem(ctx context.Context, listID, itemID string, req ItemRequest) (listable.Item, error) {
	var item listable.Item
	err := c.do(ctx, http.MethodPut, itemPath(listID, itemID), req, &item)
	return item, err
}

// SetItemStatus marks an item done or pending.
func (c *Client) SetItemStatus(ctx context.Context, listID, itemID string, status listable.ItemStatus) (listable.Item, error) {
	suffix := "/pending"
	if status == listable.StatusDone {
		suffix = "/done"
	}
	var item listable.Item
	err := c.do(ctx, http.MethodPost, itemPath(listID, itemID)+suffix, nil, &item)
	return item, err
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) error {
	return c.do(ctx, http.MethodDelete, itemPath(listID, itemID), nil, &emptyResponse{})
}

// UpdateItemsOrder reorders the items of a list.
func (c *Client) UpdateItemsOrder(ctx context.Context, listID string, updates []listable.PriorityUpdate) error {
	return c.do(ctx, http.MethodPost, listablePath(listID)+"/items/priorities", PrioritiesRequest{Updates: updates}, &emptyResponse{})
}

// Events streams the change events visible to the caller until ctx is
// cancelled or the server closes the feed.
func (c *Client) Events(ctx context.Context) (<-chan events.Event, <-chan error) {
	feed := make(chan events.Event, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(feed)
		header := http.Header{}
		if c.token != "" {
			header.Set("Authorization", "Bearer "+c.token)
		}
		wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
		if resp != nil && resp.Body != nil {
			defer resp.Body.Close()
		}
		if err != nil {
			if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
				errCh <- readErrorResponse(resp)
				return
			}
			errCh <- err
			return
		}
		defer conn.Close()

		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		for {
			var event events.Event
			if err := conn.ReadJSON(&event); err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					errCh <- nil
					return
				}
				errCh <- err
				return
			}
			select {
			case feed <- event:
			case <-ctx.Done():
				errCh <- nil
				return
			}
		}
	}()

	return feed, errCh
}

func listablePath(id string) string {
	return "/api/listables/" + url.PathEscape(id)
}

func itemPath(listID, itemID string) string {
	return listablePath(listID) + "/items/" + url.PathEscape(itemID)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return &APIError{Status: resp.StatusCode, Message: message}
		}
	}
	return &APIError{Status: resp.StatusCode, Message: resp.Status}
}
