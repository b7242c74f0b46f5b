package domain

const (
	// Size is the grid edge length.
	Size = 4
	// Cells is the number of grid positions.
	Cells = Size * Size
	// WinningTile is the tile value that marks a won game.
	WinningTile = 2048
	// MaxRank is the largest exponent a snapshot may hold. One more merge
	// still fits in a 64-bit int.
	MaxRank = 61

	// SpawnTwoProbability is the chance a spawned tile is a 2.
	SpawnTwoProbability = 0.9
	// SpawnFourProbability is the chance a spawned tile is a 4.
	SpawnFourProbability = 0.1
)
