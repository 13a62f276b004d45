package recipes

type LikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}
