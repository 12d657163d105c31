package mcpserver

// MoodCatalogContract describes the selectable moods and the fields a mood
// entry accepts, for LLM consumers logging entries through the MCP tools.
const MoodCatalogContract = `# Wunjo Mood Catalog

## Selectable moods

| Label   | Emoji |
|---------|-------|
| Happy   | 😄    |
| Calm    | 😌    |
| Neutral | 😐    |
| Sad     | 😔    |
| Angry   | 😡    |

Other labels are accepted and stored as-is, but analytics renders them with
a neutral gray color.

## Entry fields

- **mood** (required) — one label from the table above.
- **intensity** (required) — integer 1 (mild) to 5 (strong).
- **sleep** — hours slept last night, integer 0-24. Out-of-range values are
  clamped.
- **tags** — comma-separated short context words, e.g. ` + "`Work,Family,Exercise`" + `.
  Order is kept; duplicates are tolerated.
- **note** — free-text reflection, may be empty.

The entry's occurrence timestamp is assigned at logging time; entries are
immutable afterwards and can only be deleted, never edited.
`
