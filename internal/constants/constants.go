package constants

//ProjectID Default GCP project.
const ProjectID = "raceday-prod"

//FirebaseURL Default Realtime DB URL.
const FirebaseURL = "https://raceday-prod.firebaseio.com"

//CollectionUsers Name of the collection.
const CollectionUsers = "users"

//CollectionGroups Name of the collection.
const CollectionGroups = "groups"

//CollectionStations Name of the collection.
const CollectionStations = "stations"

//CollectionSideQuests Name of the collection.
const CollectionSideQuests = "sideQuests"

//CollectionHouses Name of the collection.
const CollectionHouses = "houses"

//CollectionScoreLog Name of the collection.
const CollectionScoreLog = "scoreLog"

//CollectionAnnouncements Name of the collection.
const CollectionAnnouncements = "announcements"

//CollectionRequests Name of the collection.
const CollectionRequests = "requests"

//CollectionMessages Name of the messages subcollection under a request.
const CollectionMessages = "messages"

//CollectionGame Name of the collection holding the game state singleton.
const CollectionGame = "game"

//DocGameState ID of the game state document.
const DocGameState = "state"

//TopicScoreSubmitted Name of the topic.
const TopicScoreSubmitted = "score-submitted"

//TopicAnnouncementMade Name of the topic.
const TopicAnnouncementMade = "announcement-made"

//TopicCollectionChanged Name of the topic for generic change pings.
const TopicCollectionChanged = "collection-changed"

//DbOccupancyPrefix Prefix of station occupancy data in Realtime DB.
const DbOccupancyPrefix = "occupancy/"

//CacheKeyLeaderboard Redis key of the cached public leaderboard.
const CacheKeyLeaderboard = "public:leaderboard"

//CacheKeyGameInfo Redis key of the cached public game info.
const CacheKeyGameInfo = "public:gameinfo"

//SubmissionsPrefix Prefix of side quest submission objects in the bucket.
const SubmissionsPrefix = "submissions/"

//ExportsPrefix Prefix of generated ZIP exports in the bucket.
const ExportsPrefix = "exports/"
