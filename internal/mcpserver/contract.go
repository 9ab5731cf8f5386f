package mcpserver

// NoteFormatContract describes the canonical plain-text note format that
// LLM consumers should follow when creating or updating notes.
const NoteFormatContract = `# Ansuz Note Format Contract

Every note stored in Ansuz follows this structure.

## Structure

` + "```" + `
First non-empty line becomes the title
Body text in plain Markdown-flavored text.

Tags are written inline with a leading hash: #project-x #meeting-notes
` + "```" + `

## Rules

1. **The title is the first non-empty line.** Leading ` + "`" + `#` + "`" + ` characters
   (Markdown headings) are stripped from the displayed title.
2. **Inline tags** start with ` + "`" + `#` + "`" + ` followed by a letter, then letters,
   digits, ` + "`" + `_` + "`" + `, ` + "`" + `/` + "`" + ` or ` + "`" + `-` + "`" + ` (e.g. ` + "`" + `#project-x` + "`" + `, ` + "`" + `#work/clients` + "`" + `).
3. **Tags are case-insensitive.** They are normalized to lowercase; ` + "`" + `#Go` + "`" + `
   and ` + "`" + `#go` + "`" + ` are the same tag.
4. **Explicit tags** passed via the ` + "`" + `tags` + "`" + ` argument are merged with inline
   tags; duplicates are dropped, first occurrence wins.
5. **Markdown headings are not tags.** A ` + "`" + `#` + "`" + ` at the start of a line
   followed by a space is a heading marker, not a tag.
6. **Encoding** is UTF-8.

## Images

- Upload images via the HTTP API (` + "`" + `POST /api/images` + "`" + `); it returns a URL
  under ` + "`" + `/images/` + "`" + ` that the note's image field can reference.

## Example

` + "```" + `
# Weekly standup 2026-08-24

Attendees: Alice, Bob.

Action items for #project-x, file under #meeting-notes.
` + "```" + `

This note is titled "Weekly standup 2026-08-24" and tagged
` + "`" + `project-x` + "`" + ` and ` + "`" + `meeting-notes` + "`" + `.
`
