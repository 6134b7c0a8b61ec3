package dashboard

// BlockKind tells a renderer how to draw a block.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockText    BlockKind = "text"
	BlockList    BlockKind = "list"
	BlockTable   BlockKind = "table"
	BlockSuccess BlockKind = "success"
	BlockInfo    BlockKind = "info"
	BlockError   BlockKind = "error"
	BlockChart   BlockKind = "chart"
	BlockChoice  BlockKind = "choice"
)

// Grid is a rendered table: a header row and string cells.
type Grid struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Block is one element of a page.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
	Table *Grid     `json:"table,omitempty"`

	// Chart blocks carry the chart name, the feature it was drawn for and the PNG.
	Chart   string `json:"chart,omitempty"`
	Feature string `json:"feature,omitempty"`
	Image   []byte `json:"-"`

	// Choice blocks list the selectable options.
	Options  []string `json:"options,omitempty"`
	Selected string   `json:"selected,omitempty"`

	// Data is the structured result behind the block, for API clients.
	Data any `json:"data,omitempty"`
}

// Page is the output of one navigation entry.
type Page struct {
	Slug   string  `json:"slug"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

func heading(s string) Block { return Block{Kind: BlockHeading, Text: s} }
func text(s string) Block    { return Block{Kind: BlockText, Text: s} }
func info(s string) Block    { return Block{Kind: BlockInfo, Text: s} }
func success(s string) Block { return Block{Kind: BlockSuccess, Text: s} }

func errorBlock(s string) Block { return Block{Kind: BlockError, Text: s} }

func table(columns []string, rows [][]string, data any) Block {
	return Block{Kind: BlockTable, Table: &Grid{Columns: columns, Rows: rows}, Data: data}
}
