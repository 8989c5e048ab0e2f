package main

// translations carries the dashboard strings, keyed by language. The keys
// and both string sets come from the original FeedDeck UI.
var translations = map[string]map[string]string{
	"English": {
		"language":       "English",
		"projects":       "📁 Projects",
		"select_project": "Select project",
		"new_project":    "Create new project",
		"create_project": "Create project",
		"delete_project": "🗑 Delete project",
		"add_feed":       "📥 Add RSS feed to project",
		"new_url":        "New RSS feed URL",
		"add":            "Add feed",
		"feeds":          "📋 Existing feeds",
		"delete":         "❌",
		"project_title":  "📰 FeedDeck Project",
		"items":          "📄 Articles per feed",
		"filter":         "🔍 Filter",
		"refresh":        "🔄 Auto-refresh (seconds)",
		"no_new":         "No new articles",
		"new":            "🆕 NEW",
		"read":           "✓ Read",
		"feed_error":     "Feed error",
		"skip":           "Skipped article",
		"settings":       "⚙️ Settings",
		"n8n_webhook":    "🔁 n8n Webhook (optional)",
		"n8n_send":       "🔁 Send to n8n",
		"sent_ok":        "✅ Article sent to n8n.",
		"sent_fail":      "⚠️ Failed to send article",
	},
	"Deutsch": {
		"language":       "Deutsch",
		"projects":       "📁 Projekte",
		"select_project": "Projekt auswählen",
		"new_project":    "Neues Projekt anlegen",
		"create_project": "Projekt erstellen",
		"delete_project": "🗑 Projekt löschen",
		"add_feed":       "📥 Feed-URL zu Projekt hinzufügen",
		"new_url":        "Neue RSS-Feed-URL",
		"add":            "Feed hinzufügen",
		"feeds":          "📋 Bestehende Feeds",
		"delete":         "❌",
		"project_title":  "📰 FeedDeck Projekt",
		"items":          "📄 Artikel pro Feed",
		"filter":         "🔍 Filter",
		"refresh":        "🔄 Auto-Refresh (Sekunden)",
		"no_new":         "Keine neuen Artikel",
		"new":            "🆕 NEU",
		"read":           "✓ Gelesen",
		"feed_error":     "Feed-Fehler",
		"skip":           "Beitrag übersprungen",
		"settings":       "⚙️ Einstellungen",
		"n8n_webhook":    "🔁 n8n Webhook (optional)",
		"n8n_send":       "🔁 An n8n senden",
		"sent_ok":        "✅ Artikel wurde an n8n gesendet.",
		"sent_fail":      "⚠️ Fehler beim Senden",
	},
}
