package app

import "time"

// InitialTiles is how many tiles a fresh game starts with.
const InitialTiles = 2

// DefaultTicketTTL bounds how long a session ticket stays valid.
const DefaultTicketTTL = time.Hour
