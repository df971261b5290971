// meta/meta.go
package meta

// DAYS is the number of in-game days (Monday..Saturday).
const DAYS = 6

// MAX_FISHBUCKS caps a player's fishbucks; income above it is lost.
const MAX_FISHBUCKS = 10

// SHOALS_PER_DEPTH is the number of shoals dealt at each of the three depths.
const SHOALS_PER_DEPTH = 3

// MAX_DEPTH is the deepest sea level.
const MAX_DEPTH = 3

// SHOP_VISIBLE is the number of face-up cards per shop category.
const SHOP_VISIBLE = 3

// TACKLE_MARKET_SIZE is the number of tackle dice on offer.
const TACKLE_MARKET_SIZE = 3

// MOUNT_SLOTS is the default number of trophy slots (multipliers 1,2,3).
const MOUNT_SLOTS = 3

// DESCEND_THRESHOLD is the minimum die value spent per depth level.
const DESCEND_THRESHOLD = 3

const LIFE_PRESERVER_REDUCTION = 2
const LIFE_PRESERVER_SHOP_DISCOUNT = 2
const PORT_DISCOUNT = 1

// LIFEBOAT_PENALTY is added to a player's regret value once their lifeboat is flipped.
const LIFEBOAT_PENALTY = 10

// AUTO_CATCH_MAX_DIFFICULTY is the highest printed difficulty auto-catch equipment can land.
const AUTO_CATCH_MAX_DIFFICULTY = 3

// Turns left for the last unpassed player.
const LAST_PLAYER_TURNS_SEA = 2
const LAST_PLAYER_TURNS_PORT = 4

const CYCLE_MARKET_COST = 1

// MAX_ACTIONS bounds a simulated game.
const MAX_ACTIONS = 5000
