package handlers

import (
	"net/http"
)

const documentationPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>myFlix API</title></head>
<body>
<h1>myFlix API</h1>
<p>Every endpoint except registration, login and this page needs an
<code>Authorization: Bearer &lt;token&gt;</code> header.</p>
<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>POST</td><td>/users</td><td>Register (Name, Password, Email, Birthday)</td></tr>
<tr><td>POST</td><td>/login</td><td>Log in and receive a token</td></tr>
<tr><td>GET</td><td>/users</td><td>List users</td></tr>
<tr><td>GET</td><td>/users/{name}</td><td>Get a user</td></tr>
<tr><td>PUT</td><td>/users/{name}</td><td>Replace a user's profile</td></tr>
<tr><td>DELETE</td><td>/users/{name}</td><td>Deregister a user</td></tr>
<tr><td>GET</td><td>/users/{name}/movies</td><td>List a user's favorites</td></tr>
<tr><td>PATCH</td><td>/users/{name}/movies/{movieID}</td><td>Add a favorite</td></tr>
<tr><td>DELETE</td><td>/users/{name}/movies/{movieID}</td><td>Remove a favorite</td></tr>
<tr><td>GET</td><td>/movies</td><td>List movies</td></tr>
<tr><td>GET</td><td>/movies/{title}</td><td>Get a movie by title</td></tr>
<tr><td>GET</td><td>/movies/director/{name}</td><td>Get a director by name</td></tr>
<tr><td>GET</td><td>/movies/genre/{name}</td><td>Get a genre by name</td></tr>
<tr><td>POST</td><td>/movies</td><td>Add a movie</td></tr>
<tr><td>PUT</td><td>/movies/{title}</td><td>Replace a movie</td></tr>
<tr><td>DELETE</td><td>/movies/{title}</td><td>Remove a movie</td></tr>
</table>
</body>
</html>
`

// Welcome handles GET /
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to myFlix!"))
}

// Documentation handles GET /documentation
func (h *Handler) Documentation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(documentationPage))
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("OK"))
}
