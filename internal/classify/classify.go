// Package classify turns raw reddit posts into playable media references.
//
// Classification is an ordered cascade: the first rule to produce a
// reference wins and later rules never overwrite it. The gallery branch is
// the one exception, running additively on top of whatever single rule
// matched, so a gallery post can contribute both its preview image and
// every gallery item.
package classify

import (
	"context"
	"html"
	"strings"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// Hosts that serve direct mp4/webm files a media element can play as-is.
var directVideoHosts = []string{"v.redd.it", "i.imgur.com", "giant.gfycat.com"}

type rule func(ctx context.Context, post domain.Post, flags domain.Flags, resolver domain.VideoResolver) (domain.MediaItem, bool)

// Single-reference rules, in precedence order.
var singleRules = []rule{
	directImage,
	previewImage,
	nativeVideo,
	gifImage,
	cdnVideo,
	imgurAsset,
	gfycatVideo,
	redgifsVideo,
}

// Classify yields every media reference a post resolves to: at most one from
// the single-reference rules, plus one per valid gallery item. A nil resolver
// disables the redgifs rule for the run. Posts matching nothing yield nil.
func Classify(ctx context.Context, post domain.Post, flags domain.Flags, resolver domain.VideoResolver) []domain.MediaItem {
	var items []domain.MediaItem

	for _, r := range singleRules {
		item, ok := r(ctx, post, flags, resolver)
		if !ok {
			continue
		}
		item.Subreddit = post.Subreddit
		items = append(items, item)
		break
	}

	if flags.ShowImages && post.IsGallery && len(post.Gallery) > 0 {
		for _, g := range post.Gallery {
			if g.Status != "valid" || g.SourceURL == "" {
				continue
			}
			items = append(items, domain.MediaItem{
				URL:       html.UnescapeString(g.SourceURL),
				Kind:      domain.KindImage,
				Subreddit: post.Subreddit,
			})
		}
	}

	return items
}

func directImage(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if flags.ShowImages && post.Hint == "image" && post.URL != "" {
		return domain.MediaItem{URL: post.URL, Kind: domain.KindImage}, true
	}
	return domain.MediaItem{}, false
}

func previewImage(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if flags.ShowImages && post.PreviewURL != "" {
		return domain.MediaItem{URL: html.UnescapeString(post.PreviewURL), Kind: domain.KindImage}, true
	}
	return domain.MediaItem{}, false
}

// nativeVideo accepts any non-empty fallback URL rather than requiring a
// video extension: reddit fallback URLs carry query strings, so an extension
// check would reject real assets.
func nativeVideo(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if flags.ShowVideos && post.IsVideo && post.FallbackVideoURL != "" {
		return domain.MediaItem{URL: post.FallbackVideoURL, Kind: domain.KindVideo}, true
	}
	return domain.MediaItem{}, false
}

func gifImage(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if flags.ShowGIFs && hasSuffixFold(post.URL, ".gif") {
		return domain.MediaItem{URL: post.URL, Kind: domain.KindImage}, true
	}
	return domain.MediaItem{}, false
}

func cdnVideo(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if !flags.ShowVideos {
		return domain.MediaItem{}, false
	}
	if !hasSuffixFold(post.URL, ".mp4") && !hasSuffixFold(post.URL, ".webm") {
		return domain.MediaItem{}, false
	}
	for _, host := range directVideoHosts {
		if strings.Contains(post.URL, host) {
			return domain.MediaItem{URL: post.URL, Kind: domain.KindVideo}, true
		}
	}
	return domain.MediaItem{}, false
}

// imgurAsset rebuilds a canonical i.imgur.com URL from the asset id rather
// than trusting the posted URL. Animated assets become mp4 videos, the rest
// become jpg images.
func imgurAsset(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if !strings.Contains(post.URL, "imgur.com") {
		return domain.MediaItem{}, false
	}
	id := strings.SplitN(lastSegment(post.URL), ".", 2)[0]
	if id == "" {
		return domain.MediaItem{}, false
	}
	animated := strings.Contains(post.URL, ".gifv") || strings.Contains(post.URL, ".mp4")
	if animated && flags.ShowVideos {
		return domain.MediaItem{URL: "https://i.imgur.com/" + id + ".mp4", Kind: domain.KindVideo}, true
	}
	if !animated && flags.ShowImages {
		return domain.MediaItem{URL: "https://i.imgur.com/" + id + ".jpg", Kind: domain.KindImage}, true
	}
	return domain.MediaItem{}, false
}

func gfycatVideo(_ context.Context, post domain.Post, flags domain.Flags, _ domain.VideoResolver) (domain.MediaItem, bool) {
	if flags.ShowVideos && strings.Contains(post.URL, "gfycat.com") {
		id := lastSegment(post.URL)
		if id == "" {
			return domain.MediaItem{}, false
		}
		return domain.MediaItem{URL: "https://giant.gfycat.com/" + id + ".mp4", Kind: domain.KindVideo}, true
	}
	return domain.MediaItem{}, false
}

// redgifsVideo is the one rule that goes back out to the network: it asks
// the session resolver for the asset's canonical URL. Any failure means the
// post simply falls through unmatched.
func redgifsVideo(ctx context.Context, post domain.Post, flags domain.Flags, resolver domain.VideoResolver) (domain.MediaItem, bool) {
	if !flags.ShowVideos || resolver == nil || !strings.Contains(post.URL, "redgifs.com") {
		return domain.MediaItem{}, false
	}
	id := lastSegment(post.URL)
	if id == "" {
		return domain.MediaItem{}, false
	}
	url, err := resolver.ResolveVideo(ctx, id)
	if err != nil {
		return domain.MediaItem{}, false
	}
	return domain.MediaItem{URL: url, Kind: domain.KindVideo}, true
}

func lastSegment(url string) string {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	return parts[len(parts)-1]
}

func hasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), suffix)
}
