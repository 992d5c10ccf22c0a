package telegram

const (
	msgWelcome = "Welcome to the Website Builder Bot! 🚀\n\n" +
		"I'll help you create your perfect website. Here's what you can do:\n\n" +
		"• Just chat with me to describe your website\n" +
		"• Send photos you want on the site\n" +
		"• Use /generate to create your website\n" +
		"• Use /preview to publish it and get a live link\n" +
		"• Use /reset to start over\n\n" +
		"Let's begin! Tell me about your website idea..."

	msgHelp = "I didn't recognize that command. Here's what I understand:\n\n" +
		"• /start - introduction\n" +
		"• /generate - create your website\n" +
		"• /preview - publish your website and get a live link\n" +
		"• /reset - delete everything and start over\n\n" +
		"Or just keep telling me about your website."

	msgInitFailed = "Sorry, there was an error initializing your account. Please try again."

	msgGenerating = "Generating your website... This might take a few moments. ⏳"

	msgGenerated = "🎉 Your website has been generated!\n\n" +
		"The website files have been created:\n" +
		"• index.html\n" +
		"• styles.css\n" +
		"• script.js\n\n" +
		"Use /preview to deploy and get a live preview of your website!\n" +
		"You can continue chatting with me to make any changes to your website. Just use /generate again when you want to update it!"

	msgGenerateFailed = "Sorry, there was an error generating your website. Please try again."

	msgPreparing = "Preparing to deploy your website... 🚀"

	msgNoSite = "❌ Website files not found. Please use /generate first to create your website."

	msgDeploying = "Deploying to GitHub Pages... This might take a minute. ⏳"

	msgLive = "🎉 Your website is now live!\n\n" +
		"You can preview your website here:\n%s\n\n" +
		"The website will be updated whenever you use /generate and /preview again.\n" +
		"Note: It may take a few minutes for changes to appear on the live site."

	msgPublishDisabled = "❌ Publishing is not configured on this server."

	msgPublishAuth = "❌ Failed to deploy your website.\n\n" +
		"GitHub rejected the credentials. Please make sure your GitHub token and organization settings are correct."

	msgPublishTarget = "❌ Failed to deploy your website.\n\n" +
		"The GitHub organization or repository could not be found. Please check the organization settings."

	msgPublishFailed = "❌ Failed to deploy your website.\n\nError: %s\n\nPlease try /preview again later."

	msgPreviewFailed = "Sorry, there was an error preparing your website preview. Please try again."

	msgResetting = "Resetting your data... 🔄"

	msgResetDone = "✅ All your data has been reset!\n\n" +
		"• Chat history cleared\n" +
		"• User profile reset\n" +
		"• Images removed\n" +
		"• Website files deleted\n\n" +
		"You can start fresh by describing your website idea!"

	msgResetFailed = "Sorry, there was an error resetting your data. Please try again."

	msgImageAnalyzed = "Image received and analyzed! 📸\n\nAI Analysis: %s"

	msgImageFailed = "Sorry, there was an error processing your image. Please try again."

	msgBadModelReply = "Sorry, there was an error understanding the response. Please try again."

	msgMessageFailed = "Sorry, there was an error processing your message. Please try again."

	msgUnsupported = "I can only read text messages and photos. Tell me about your website!"
)
