// Package farm talks to the Farm LLM gateway, an OpenAI-compatible chat
// completions endpoint that authenticates with a subscription-key header and
// requires an api-version query parameter on every request.
//
// Build a client from a resolved configuration:
//
//	cfg, err := config.Resolve(config.Values{}, config.OSEnv(), "")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := farm.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	answer, err := client.Complete(ctx, "Tell me about the farm", "You are terse.")
//
// The request URL is derived once, in NewClient, by NormalizeURL.
package farm
