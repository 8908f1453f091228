package model

// SeedPosts returns the posts shown before the first list response arrives.
// A fresh slice is returned on every call.
func SeedPosts() []Post {
	return []Post{
		{
			ID:            "seed-1",
			Title:         "Getting started with the archive",
			Description:   "A short tour of the posts list, the editor and how changes reach the server.",
			FeaturedImage: "https://images.unsplash.com/photo-1455390582262-044cdead277a",
			PublishDate:   "2024-01-10T09:00",
			Published:     true,
		},
		{
			ID:            "seed-2",
			Title:         "Writing your first post",
			Description:   "Fill in a title, a description and a publish date, then save.",
			FeaturedImage: "https://images.unsplash.com/photo-1499750310107-5fef28a66643",
			PublishDate:   "2024-02-01T18:30",
			Published:     false,
		},
	}
}
