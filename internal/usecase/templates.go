package usecase

import "strings"

// categoryTemplate binds a category key to the article skeleton handed to
// the generation prompt.
type categoryTemplate struct {
	key  string
	body string
}

// categoryTemplates is scanned in order and the first key that is a
// case-insensitive substring of the analyzed category wins, so more specific
// keys must be listed before ones they could overlap with. Slice order is
// the priority order.
var categoryTemplates = []categoryTemplate{
	{key: "Arbeitsanweisung", body: `<h2>Arbeitsanweisung: [Titel]</h2>

<h3>1. Zweck und Ziel</h3>
<p>[Beschreibung des Zwecks dieser Anweisung]</p>

<h3>2. Geltungsbereich</h3>
<p>[Für wen gilt diese Anweisung]</p>

<h3>3. Durchführung</h3>
<ol>
    <li>[Schritt 1]</li>
    <li>[Schritt 2]</li>
    <li>[Schritt 3]</li>
</ol>

<h3>4. Wichtige Hinweise</h3>
<ul>
    <li>[Hinweis 1]</li>
    <li>[Hinweis 2]</li>
</ul>

<h3>5. Verantwortlichkeiten</h3>
<p>[Wer ist verantwortlich]</p>

<h3>6. Dokumentation</h3>
<p>[Wie wird dokumentiert]</p>`},

	{key: "Telefonannahme", body: `<h2>Telefonannahme: [Titel]</h2>

<h3>Begrüßung</h3>
<p>[Standardbegrüßung]</p>

<h3>Gesprächsführung</h3>
<ol>
    <li>[Schritt 1]</li>
    <li>[Schritt 2]</li>
</ol>

<h3>Verabschiedung</h3>
<p>[Standardverabschiedung]</p>

<h3>Besondere Situationen</h3>
<ul>
    <li>[Situation 1]</li>
    <li>[Situation 2]</li>
</ul>`},

	{key: "Patientenaufnahme", body: `<h2>Patientenaufnahme: [Titel]</h2>

<h3>Vorbereitung</h3>
<p>[Was ist vorzubereiten]</p>

<h3>Ablauf</h3>
<ol>
    <li>[Schritt 1]</li>
    <li>[Schritt 2]</li>
</ol>

<h3>Dokumentation</h3>
<p>[Was ist zu dokumentieren]</p>

<h3>Nachbereitung</h3>
<p>[Follow-up Schritte]</p>`},
}

// defaultTemplate covers categories without a dedicated skeleton.
const defaultTemplate = `<h2>[Titel]</h2>

<h3>Beschreibung</h3>
<p>[Beschreibung des Themas]</p>

<h3>Anweisungen</h3>
<ol>
    <li>[Anweisung 1]</li>
    <li>[Anweisung 2]</li>
</ol>

<h3>Wichtige Hinweise</h3>
<ul>
    <li>[Hinweis 1]</li>
</ul>`

// TemplateForCategory picks the article skeleton for an analyzed category.
func TemplateForCategory(category string) string {
	lowered := strings.ToLower(category)
	for _, t := range categoryTemplates {
		if strings.Contains(lowered, strings.ToLower(t.key)) {
			return t.body
		}
	}
	return defaultTemplate
}
