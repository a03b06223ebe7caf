package token

// Pos is a byte offset into a source file, as minted by internal/source.
// It is a thin alias so lexer/parser code reads naturally without
// importing internal/source everywhere a bare offset is needed.
type Pos = uint32
