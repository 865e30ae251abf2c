package html

const headerTemplate = `{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
.document-contents {
	display: flex;
	flex-direction: column;
	flex-wrap: nowrap;
	font-family: var(--vscode-editor-font-family, monospace);
}
.document-line {
	display: flex;
	flex-direction: row;
	flex-wrap: nowrap;
}
.document-line-number {
	display: inline-block;
	flex-grow: 0;
	min-width: {{.LineNumberWidth}}ch;
	width: {{.LineNumberWidth}}ch;
	text-align: right;
	font-weight: bold;
	border-right: 1px solid;
	padding-right: 5px;
	margin-right: 3px;
	user-select: none;
}
.document-fragment {
	white-space: pre;
	display: inline-block;
}
.marking-table {
	width: 95vw;
	margin-top: 10px;
}
.marking-table th,
.marking-table td {
	border: 1px solid;
}
.marking-description-col {
	width: 80%;
}
.marking-color-col {
	width: 20%;
}
</style>
</head>
<body>
{{end}}`

const bodyTemplate = `{{define "body"}}<div class="document-contents">
{{- range .Lines}}
<div class="document-line"><div class="document-line-number">{{.Number}}</div>
{{- range .Fragments}}<div class="document-fragment" style="{{with .Color}}background-color: {{rgba .}}{{end}}">{{.Text}}</div>{{end -}}
</div>
{{- end}}
</div>
<table class="marking-table">
<thead><tr><th class="marking-description-col">Description</th><th class="marking-color-col">Color</th></tr></thead>
<tbody>
{{- range .Legend}}
<tr><td class="marking-description-col">{{.Description}}</td><td class="marking-color-col" style="background-color: {{rgba .Color}}; color: {{if .Color.IsLight}}#000{{else}}#fff{{end}}">{{.Color.Hex}}</td></tr>
{{- end}}
</tbody>
</table>
{{end}}`

const footerTemplate = `{{define "footer"}}</body>
</html>
{{end}}`
