package telegram

// Static menu texts. The home text is prefixed with the requester's first
// name at send time.
const (
	welcomeText = `🏠 Welcome to the File Store Bot

Send a retrieval link to get your files, or use the menu below.`

	aboutText = `🤖 Name: File Store Bot

📝 Language: Go

🗄 Storage: MongoDB`

	supportText = `Need help or want to request content?

Reach out to the channel admins through the support chat linked in the channel description.`

	commandsText = `🔍 Available Commands

🧛 Admin Commands:
• /link or /sl - Store a single file
• /batch or /ml - Store a range of files
• /stats - View bot statistics
• /broadcast - Broadcast a message (reply to it)
• /post movie_name link - Create a movie post
• /setchannel channelId - Set the posting channel
• /setsticker or /ss - Set the post sticker (reply to one)
• /restart or /redeploy - Redeploy the bot

👤 User Commands:
• /start - Start the bot`
)
