package constant

// Tracker Function Identifiers - these constants define the required global function signatures for Lua provider modules.
const (
	SearchShowsFn = "SearchShows"
)

// SourceTemplate is a Go text/template for scaffolding new Lua provider files.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias show { id: string, name: string, episodes: number|nil }


--- Searches for shows with the given query.
-- @param query string Query to search for
-- @return show[] Table of shows
function {{ .SearchShowsFn }}(query)
	return {}
end
`
