package view

import (
	"bytes"
	"fmt"
	"html/template"
)

// Page names accepted by Render.
const (
	PageHome      = "home"
	PageDashboard = "dashboard"
	PageNotFound  = "notfound"
)

// PageData provides the dynamic fields shared by every page.
type PageData struct {
	Title   string
	BaseURL string
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{.Title}} · linkpulse</title>
	<style>
		:root {
			--bg: #090a0f;
			--card: rgba(255, 255, 255, 0.05);
			--border: rgba(255, 255, 255, 0.15);
			--text: #e7ecff;
			--muted: #a1acc5;
			--accent: #7dd3fc;
			--accent-strong: #38bdf8;
			--danger: #f87171;
			font-family: "Inter", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
		}
		* { box-sizing: border-box; }
		body {
			margin: 0;
			min-height: 100vh;
			display: flex;
			flex-direction: column;
			align-items: center;
			padding: 48px 16px;
			background: radial-gradient(circle at 20% 20%, #111827, #030712 60%);
			color: var(--text);
		}
		nav { width: min(860px, 96vw); display: flex; gap: 18px; margin-bottom: 24px; }
		nav a { color: var(--muted); text-decoration: none; }
		nav a:hover { color: var(--accent); }
		.card {
			background: var(--card);
			border: 1px solid var(--border);
			border-radius: 18px;
			padding: 32px;
			width: min(860px, 96vw);
			box-shadow: 0 45px 100px rgba(0,0,0,0.35);
			backdrop-filter: blur(18px);
		}
		h1 { font-size: 1.5rem; margin: 0 0 6px; }
		p { color: var(--muted); margin-top: 0; }
		input {
			width: 100%;
			height: 44px;
			padding: 0 14px;
			margin-bottom: 12px;
			border-radius: 12px;
			border: 1px solid var(--border);
			background: rgba(0,0,0,0.25);
			color: var(--text);
		}
		button, a.button {
			display: inline-flex;
			align-items: center;
			justify-content: center;
			padding: 0 24px;
			height: 44px;
			border: 0;
			border-radius: 999px;
			background: linear-gradient(120deg, var(--accent), var(--accent-strong));
			color: #050708;
			font-weight: 600;
			text-decoration: none;
			cursor: pointer;
		}
		button.danger { background: transparent; color: var(--danger); border: 1px solid var(--danger); height: 32px; padding: 0 12px; }
		.result {
			margin-top: 20px;
			padding: 18px;
			border-radius: 14px;
			background: rgba(125, 211, 252, 0.07);
			border: 1px solid rgba(125, 211, 252, 0.25);
			word-break: break-all;
		}
		.error { color: var(--danger); }
		table { width: 100%; border-collapse: collapse; margin-top: 16px; font-size: 0.9rem; }
		th, td { text-align: left; padding: 10px 8px; border-bottom: 1px solid var(--border); word-break: break-all; }
		th { color: var(--muted); font-weight: 500; }
		a { color: var(--accent); }
	</style>
</head>
<body>
	<nav><a href="/">Shorten</a><a href="/dashboard">Dashboard</a></nav>
	<div class="card">{{template "content" .}}</div>
</body>
</html>{{end}}`

const homePage = `{{define "content"}}
	<h1>Shorten a link</h1>
	<p>Paste a long URL, optionally pick a 6-8 character code.</p>
	<form id="shorten">
		<input id="originalUrl" type="url" placeholder="https://example.com/a/very/long/path" required />
		<input id="customCode" type="text" placeholder="custom code (optional)" pattern="[A-Za-z0-9]{6,8}" />
		<button type="submit">Shorten</button>
	</form>
	<div id="result"></div>
	<script>
		document.getElementById("shorten").addEventListener("submit", async (ev) => {
			ev.preventDefault();
			const out = document.getElementById("result");
			const body = { originalUrl: document.getElementById("originalUrl").value };
			const custom = document.getElementById("customCode").value.trim();
			if (custom) body.customCode = custom;
			const res = await fetch("/api/links", {
				method: "POST",
				headers: { "Content-Type": "application/json" },
				body: JSON.stringify(body),
			});
			const data = await res.json();
			out.className = res.ok ? "result" : "result error";
			out.textContent = "";
			if (!res.ok) { out.textContent = data.error || "request failed"; return; }
			const a = document.createElement("a");
			a.href = data.shortUrl;
			a.textContent = data.shortUrl;
			out.appendChild(a);
		});
	</script>
{{end}}`

const dashboardPage = `{{define "content"}}
	<h1>Dashboard</h1>
	<p>Every short link with its click totals. Base URL: {{.BaseURL}}</p>
	<input id="search" type="search" placeholder="filter by code or URL" />
	<table>
		<thead><tr><th>Code</th><th>Destination</th><th>Clicks</th><th>Last click</th><th>Created</th><th></th></tr></thead>
		<tbody id="rows"></tbody>
	</table>
	<div id="detail"></div>
	<script>
		const rows = document.getElementById("rows");
		const cell = (tr, text) => { const td = document.createElement("td"); td.textContent = text; tr.appendChild(td); return td; };
		const fmt = (ts) => ts ? new Date(ts).toLocaleString() : "–";

		async function showDetail(code) {
			const res = await fetch("/api/links/" + encodeURIComponent(code));
			const data = await res.json();
			const detail = document.getElementById("detail");
			detail.className = "result";
			detail.textContent = "";
			if (!res.ok) { detail.textContent = data.error; return; }
			const title = document.createElement("strong");
			title.textContent = code + " · " + data.click_logs.length + " clicks logged";
			detail.appendChild(title);
			const table = document.createElement("table");
			for (const log of data.click_logs) {
				const tr = document.createElement("tr");
				cell(tr, fmt(log.click_time));
				cell(tr, log.ip_address);
				cell(tr, log.user_agent);
				table.appendChild(tr);
			}
			detail.appendChild(table);
		}

		async function load() {
			const q = document.getElementById("search").value;
			const res = await fetch("/api/links?search=" + encodeURIComponent(q));
			const links = await res.json();
			rows.textContent = "";
			for (const link of links) {
				const tr = document.createElement("tr");
				const codeCell = cell(tr, "");
				const a = document.createElement("a");
				a.href = "#";
				a.textContent = link.short_code;
				a.addEventListener("click", (ev) => { ev.preventDefault(); showDetail(link.short_code); });
				codeCell.appendChild(a);
				cell(tr, link.original_url);
				cell(tr, String(link.click_count));
				cell(tr, fmt(link.last_clicked_at));
				cell(tr, fmt(link.created_at));
				const actions = cell(tr, "");
				const del = document.createElement("button");
				del.className = "danger";
				del.textContent = "Delete";
				del.addEventListener("click", async () => {
					if (!confirm("Delete " + link.short_code + "?")) return;
					await fetch("/api/links/" + encodeURIComponent(link.short_code), { method: "DELETE" });
					load();
				});
				actions.appendChild(del);
				rows.appendChild(tr);
			}
		}

		document.getElementById("search").addEventListener("input", load);
		load();
	</script>
{{end}}`

const notFoundPage = `{{define "content"}}
	<h1>Short link not found</h1>
	<p>The link you followed does not exist or has been deleted.</p>
	<a class="button" href="/">Create a new one</a>
{{end}}`

var pages = map[string]*template.Template{
	PageHome:      mustPage(PageHome, homePage),
	PageDashboard: mustPage(PageDashboard, dashboardPage),
	PageNotFound:  mustPage(PageNotFound, notFoundPage),
}

func mustPage(name, content string) *template.Template {
	t := template.Must(template.New(name).Parse(layout))
	return template.Must(t.Parse(content))
}

// Render expands the named page inside the shared layout.
func Render(name string, data PageData) (string, error) {
	tmpl, ok := pages[name]
	if !ok {
		return "", fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
