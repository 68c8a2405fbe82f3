package words

// DefaultWords is the built-in dictionary. Secrets are drawn from it and
// guesses are validated against it.
var DefaultWords = []string{
	// Nature
	"ALARM", "AMBER", "APPLE", "BEACH", "BERRY", "BIRCH", "BLOOM", "BRUSH", "CEDAR", "CLIFF",
	"CLOUD", "CORAL", "CREEK", "DAISY", "EARTH", "FERNS", "FIELD", "FLAME", "FLORA", "FROST",
	"GRAIN", "GRASS", "GROVE", "HAZEL", "LEMON", "MAPLE", "MARSH", "MELON", "OCEAN", "OLIVE",
	"PEACH", "PETAL", "PLANT", "RIVER", "SHORE", "SLOPE", "STONE", "STORM", "SWAMP", "THORN",
	"TIDAL", "TULIP", "WATER", "WHEAT",

	// Animals
	"BISON", "CAMEL", "CRANE", "EAGLE", "GECKO", "GOOSE", "HERON", "HORSE", "HOUND", "KOALA",
	"LEMUR", "LLAMA", "MOOSE", "MOUSE", "OTTER", "PANDA", "QUAIL", "RAVEN", "ROBIN", "SHARK",
	"SHEEP", "SNAIL", "SNAKE", "SQUID", "STORK", "SWIFT", "TIGER", "TROUT", "WHALE", "ZEBRA",

	// Things
	"ANVIL", "BADGE", "BENCH", "BLADE", "BOARD", "BRICK", "BROOM", "CABIN", "CANDY", "CHAIR",
	"CHALK", "CHEST", "CLOCK", "COUCH", "CROWN", "DRESS", "DRILL", "FENCE", "FLASK", "GLASS",
	"GLOVE", "HATCH", "KNIFE", "LADLE", "LASER", "LEVER", "MEDAL", "MINOR", "PAINT", "PAPER",
	"PIANO", "PLATE", "RADIO", "RAZOR", "ROBOT", "SCARF", "SHELF", "SPOON", "STOVE", "TABLE",
	"TORCH", "TOWEL", "TOWER", "TRAIN", "TRUCK", "WAGON", "WATCH", "WHEEL",

	// Food
	"BAGEL", "BREAD", "COCOA", "CHILI", "CIDER", "CREAM", "CREPE", "CURRY", "DONUT", "FEAST",
	"FUDGE", "GRAPE", "GRAVY", "HONEY", "JELLY", "MANGO", "PASTA", "PIZZA", "SALAD", "SAUCE",
	"SPICE", "STEAK", "SUGAR", "SYRUP", "TOAST",

	// Actions
	"ARISE", "BLEND", "BUILD", "CARRY", "CATCH", "CHASE", "CLIMB", "CRAWL", "DANCE", "DREAM",
	"DRIVE", "ERASE", "FLOAT", "GUESS", "LAUGH", "LEARN", "MARCH", "PAUSE", "PLACE", "PRESS",
	"RAISE", "REACH", "SCORE", "SHARE", "SHINE", "SLEEP", "SMILE", "SPEAK", "SPEED", "STAND",
	"START", "STEAL", "SWEEP", "SWING", "THINK", "THROW", "TRACE", "TRADE", "WRITE", "YIELD",

	// Qualities
	"BRAVE", "BRISK", "CIVIC", "CLEAN", "CLEAR", "CRISP", "EAGER", "EARLY", "EMPTY", "FAINT",
	"FRESH", "GIANT", "GRAND", "HAPPY", "HEAVY", "IVORY", "JOLLY", "LUCKY", "MERRY", "NOBLE",
	"PLAIN", "PROUD", "QUICK", "QUIET", "READY", "ROUGH", "ROUND", "SHARP", "SILLY", "SMART",
	"SOLID", "SWEET", "THICK", "TIGHT", "VIVID", "WEARY", "YOUNG",

	// Places and people
	"ABBEY", "ALLEY", "ARENA", "CABLE", "CHIEF", "CLERK", "COAST", "COURT", "GUARD", "GUEST",
	"HOTEL", "MAYOR", "NURSE", "PLAZA", "PILOT", "QUEEN", "SAINT", "SCOUT", "TOWNS", "VILLA",

	// Misc
	"ANGLE", "BASIC", "CHAOS", "CHORD", "DELTA", "EPOCH", "FABLE", "GHOST", "HUMOR", "IDEAL",
	"JOKER", "KARMA", "LOGIC", "MAGIC", "MOTTO", "NOVEL", "ORBIT", "PIXEL", "PRISM", "QUOTA",
	"RADAR", "RHYME", "SCALE", "TEMPO", "UNITY", "VAPOR", "VOICE", "WORLD", "YACHT", "ZESTY",
}
