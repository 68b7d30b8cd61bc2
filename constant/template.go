package constant

// Scripted Catalog Identifiers - these constants name the globals a Lua catalog script may define.
const (
	SearchFn     = "Search"
	PageLimitVar = "Limit"
)

// SourceTemplate is a Go text/template for scaffolding new Lua catalog scripts.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }} 
-- @url     {{ .URL }}
-- @author  {{ .Author }} 
-- @license MIT
{{ $divider }}


---@alias item { title: string, url: string, id: string|nil, summary: string|nil, cover: string|nil, tags: string|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- VARIABLES -----

--- Number of items a full page holds. A shorter page ends the search.
{{ .PageLimitVar }} = 20

--- END VARIABLES ---



----- MAIN -----

--- Searches the catalog.
-- @param query string Query to search for, may be empty
-- @param page number Page to fetch, starting at 1
-- @return item[] Table of items
function {{ .SearchFn }}(query, page)
	return {}
end


--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
