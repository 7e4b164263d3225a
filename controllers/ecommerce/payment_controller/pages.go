package payment_controller

import "html/template"

// esewaFormPage posts the backend-signed fields to eSewa as-is.
var esewaFormPage = template.Must(template.New("esewa").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Redirecting to eSewa</title></head>
<body onload="document.forms[0].submit()" style="font-family: sans-serif; text-align: center; padding: 48px;">
  <p>Redirecting to eSewa for order {{.OrderID}}...</p>
  <form method="POST" action="{{.ActionURL}}">
    {{range $name, $value := .Fields}}<input type="hidden" name="{{$name}}" value="{{$value}}">
    {{end}}<noscript><button type="submit">Continue to eSewa</button></noscript>
  </form>
</body>
</html>`))

type statusPageData struct {
	Success  bool
	Title    string
	Message  string
	OrderID  string
	NextURL  string
	RefreshS int64
}

var statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{if .RefreshS}}<meta http-equiv="refresh" content="{{.RefreshS}};url={{.NextURL}}">{{end}}
</head>
<body style="font-family: sans-serif; text-align: center; padding: 48px;">
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
  {{if .OrderID}}<p>Order: {{.OrderID}}</p>{{end}}
  <a href="{{.NextURL}}">{{if .Success}}View your order{{else}}Back to checkout{{end}}</a>
</body>
</html>`))
