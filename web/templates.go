package web

import (
	"html/template"
	"time"

	"github.com/amonks/lists/listable"
)

var iconGlyphs = map[listable.ActionIcon]string{
	listable.IconEdit:      "✎",
	listable.IconDelete:    "✕",
	listable.IconDone:      "✓",
	listable.IconRedo:      "↺",
	listable.IconChecked:   "☑",
	listable.IconUnchecked: "☐",
}

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatModified": formatModified,
		"itemIcon": func(parent listable.Type, status listable.ItemStatus) string {
			return iconGlyphs[listable.ItemActionIcon(parent, status)]
		},
		"favoriteLink": func(l listable.Listable) string {
			return listablePath(l)
		},
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func formatModified(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{if .Title}}{{.Title}} · {{end}}Lists</title>
  <style>
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: #fcfaf6;
    }
    header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      padding: 12px 20px;
      border-bottom: 1px solid #d7cdbd;
    }
    header h1 {
      margin: 0;
      font-size: 20px;
    }
    header h1 a {
      color: inherit;
      text-decoration: none;
    }
    nav {
      display: flex;
      gap: 12px;
      align-items: center;
    }
    main {
      max-width: 720px;
      margin: 0 auto;
      padding: 18px 20px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 12px;
      padding: 16px 18px;
      margin-bottom: 16px;
    }
    .rows {
      list-style: none;
      padding: 0;
      margin: 0;
    }
    .rows li {
      display: flex;
      align-items: center;
      gap: 10px;
      padding: 8px 0;
      border-bottom: 1px solid #efe6d7;
    }
    .rows li a.name {
      flex: 1;
      color: inherit;
      text-decoration: none;
    }
    .meta {
      color: #72685f;
      font-size: 12px;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 6px;
      margin-bottom: 12px;
    }
    input[type="text"], input[type="email"], input[type="password"], select, textarea {
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
    }
    textarea {
      min-height: 240px;
      resize: vertical;
    }
    .inline {
      display: flex;
      gap: 8px;
      align-items: center;
    }
    button {
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.icon {
      padding: 2px 8px;
      background: transparent;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .error {
      padding: 10px 12px;
      border-radius: 8px;
      background: #f7d9d6;
      border: 1px solid #d9a7a2;
      margin-bottom: 12px;
      color: #5b1d17;
    }
    .muted {
      color: #72685f;
    }
    .done .name {
      text-decoration: line-through;
      color: #72685f;
    }
  </style>
</head>
<body>
  <header>
    <h1><a href="/">Lists</a></h1>
    <nav>
      {{if .User}}
        <a href="/profile">{{.User.DisplayName}}</a>
        <form method="post" action="/logout"><button type="submit">Log out</button></form>
      {{else}}
        <a href="/login">Log in</a>
        <a href="/register">Register</a>
      {{end}}
    </nav>
  </header>
  <main>
    {{if .Error}}<div class="error">{{.Error}}</div>{{end}}

    {{if eq .Page "login"}}
      <section class="pane">
        <h2>Log in</h2>
        <form method="post" action="/login">
          <div class="field">
            <label for="email">Email</label>
            <input id="email" type="email" name="email" value="{{.Form.Email}}" required>
          </div>
          <div class="field">
            <label for="password">Password</label>
            <input id="password" type="password" name="password" required>
          </div>
          <button type="submit">Log in</button>
        </form>
        <p class="muted">No account yet? <a href="/register">Register</a></p>
      </section>

    {{else if eq .Page "register"}}
      <section class="pane">
        <h2>Register</h2>
        <form method="post" action="/register">
          <div class="field">
            <label for="name">Name</label>
            <input id="name" type="text" name="name" value="{{.Form.Name}}">
          </div>
          <div class="field">
            <label for="email">Email</label>
            <input id="email" type="email" name="email" value="{{.Form.Email}}" required>
          </div>
          <div class="field">
            <label for="password">Password</label>
            <input id="password" type="password" name="password" required>
          </div>
          <div class="field">
            <label for="confirmPassword">Confirm password</label>
            <input id="confirmPassword" type="password" name="confirmPassword" required>
          </div>
          <button type="submit">Register</button>
        </form>
      </section>

    {{else if eq .Page "profile"}}
      {{with .User}}
        <section class="pane">
          <h2>{{.Initials}} · {{.DisplayName}}</h2>
          <p class="meta">{{.Email}}{{if .Location}} · {{.Location}}{{end}}</p>
          <form method="post" action="/profile" class="inline">
            <input type="text" name="name" value="{{$.Form.Name}}" placeholder="Name">
            <button type="submit">Save</button>
          </form>
        </section>
      {{end}}

    {{else if eq .Page "lists"}}
      {{if .Favorites}}
        <section class="pane">
          <h2>Favorites</h2>
          <ul class="rows">
            {{range .Favorites}}
              <li><a class="name" href="{{.Link}}">{{.Name}}</a><span class="meta">{{.Type.Label}}</span></li>
            {{end}}
          </ul>
        </section>
      {{end}}
      <section class="pane">
        <form method="get" action="/" class="inline">
          <select name="type" onchange="this.form.submit()">
            <option value="">All</option>
            {{range .TypeOptions}}
              <option value="{{.Value}}" {{if eq .Value $.TypeFilter}}selected{{end}}>{{.Label}}</option>
            {{end}}
          </select>
          <noscript><button type="submit">Filter</button></noscript>
        </form>
        <ul class="rows">
          {{range .Listables}}
            <li>
              <a class="name" href="{{favoriteLink .}}">{{.Name}}</a>
              <span class="meta">{{.Type.Label}}{{if .IsShared}} · shared{{end}}{{if .Type.IsList}} · {{.NumberOfItems}}{{end}}</span>
              <form method="post" action="/list/{{.ID}}/favorite">
                <input type="hidden" name="next" value="/{{if $.TypeFilter}}?type={{$.TypeFilter}}{{end}}">
                <button class="icon" type="submit" title="Favorite">{{if .IsFavorite}}★{{else}}☆{{end}}</button>
              </form>
              <a href="/list/{{.ID}}" title="Edit">✎</a>
            </li>
          {{else}}
            <li class="muted">Nothing here yet.</li>
          {{end}}
        </ul>
        <form method="post" action="/lists" class="inline">
          <input type="text" name="name" value="{{.Form.Name}}" placeholder="New list" required>
          <select name="type">
            {{range .TypeOptions}}
              <option value="{{.Value}}" {{if eq .Value $.Form.Type}}selected{{end}}>{{.Label}}</option>
            {{end}}
          </select>
          <button type="submit">Add</button>
        </form>
      </section>

    {{else if eq .Page "list"}}
      {{with .Listable}}
        <section class="pane">
          <h2>{{.Name}}</h2>
          <p class="meta">Changed {{formatModified .ModifiedAt}}</p>
          <form method="post" action="/list/{{.ID}}">
            <div class="field">
              <label for="name">Name</label>
              <input id="name" type="text" name="name" value="{{.Name}}" required>
            </div>
            <div class="field">
              <label for="type">Type</label>
              <select id="type" name="type">
                {{range $.TypeOptions}}
                  <option value="{{.Value}}" {{if eq .Value $.Listable.Type}}selected{{end}}>{{.Label}}</option>
                {{end}}
              </select>
            </div>
            <div class="field">
              <label for="subtype">Category</label>
              <select id="subtype" name="subtype">
                {{range $.SubTypeOptions}}
                  <option value="{{.Value}}" {{if eq .Value $.Listable.SubType}}selected{{end}}>{{.Label}}</option>
                {{end}}
              </select>
            </div>
            <div class="field">
              <label for="description">Description</label>
              <input id="description" type="text" name="description" value="{{.Description}}">
            </div>
            <label class="inline"><input type="checkbox" name="keepDoneItems" {{if .KeepDoneItems}}checked{{end}}>Keep done items</label>
            <p><button type="submit">Save</button></p>
          </form>
          <p><a href="{{favoriteLink .}}">Open</a></p>
        </section>
        <section class="pane">
          <h3>Shared with</h3>
          <ul class="rows">
            {{range $.SharedUsers}}
              <li>
                <span class="name">{{.DisplayName}}</span>
                {{if or $.IsOwner (eq .ID $.User.ID)}}
                  <form method="post" action="/list/{{$.Listable.ID}}/unshare/{{.ID}}">
                    <button class="icon" type="submit" title="Remove">✕</button>
                  </form>
                {{end}}
              </li>
            {{else}}
              <li class="muted">Not shared.</li>
            {{end}}
          </ul>
          {{if and $.IsOwner $.ShareOptions}}
            <form method="post" action="/list/{{.ID}}/share" class="inline">
              <select name="user">
                {{range $.ShareOptions}}<option value="{{.Value}}">{{.Label}}</option>{{end}}
              </select>
              <button type="submit">Share</button>
            </form>
          {{end}}
        </section>
        {{if $.IsOwner}}
          <form method="post" action="/list/{{.ID}}/delete">
            <button class="danger" type="submit">Delete</button>
          </form>
        {{end}}
      {{end}}

    {{else if eq .Page "list-items"}}
      {{with .Listable}}
        <section class="pane">
          <h2>{{.Name}} <a href="/list/{{.ID}}" title="Edit">✎</a></h2>
          {{if .Description}}<p class="muted">{{.Description}}</p>{{end}}
          <form method="post" action="/list/{{.ID}}/items" class="inline">
            <input type="text" name="name" value="{{$.Form.Name}}" placeholder="Add item" required autofocus>
            <button type="submit">Add</button>
          </form>
          <ul class="rows">
            {{range $.PendingItems}}
              <li>
                <form method="post" action="/list/{{$.Listable.ID}}/items/{{.ID}}/toggle">
                  <button class="icon" type="submit">{{itemIcon $.Listable.Type .Status}}</button>
                </form>
                <span class="name">{{.Name}}</span>
                <form method="post" action="/list/{{$.Listable.ID}}/items/{{.ID}}/delete">
                  <button class="icon" type="submit" title="Delete">✕</button>
                </form>
              </li>
            {{else}}
              <li class="muted">No pending items.</li>
            {{end}}
          </ul>
        </section>
        {{if $.DoneItems}}
          <section class="pane">
            <h3>Done</h3>
            <ul class="rows">
              {{range $.DoneItems}}
                <li class="done">
                  <form method="post" action="/list/{{$.Listable.ID}}/items/{{.ID}}/toggle">
                    <button class="icon" type="submit">{{itemIcon $.Listable.Type .Status}}</button>
                  </form>
                  <span class="name">{{.Name}}</span>
                  <form method="post" action="/list/{{$.Listable.ID}}/items/{{.ID}}/delete">
                    <button class="icon" type="submit" title="Delete">✕</button>
                  </form>
                </li>
              {{end}}
            </ul>
          </section>
        {{end}}
      {{end}}

    {{else if eq .Page "note"}}
      {{with .Listable}}
        <section class="pane">
          <h2>{{.Name}} <a href="/list/{{.ID}}" title="Edit">✎</a></h2>
          <form method="post" action="/note/{{.ID}}">
            <div class="field">
              <textarea name="content">{{.NoteContent}}</textarea>
            </div>
            <button type="submit">Save</button>
          </form>
        </section>
      {{end}}
    {{end}}
  </main>
</body>
</html>
`
