package content

// GROQ projections for each document type. List queries omit post bodies so
// index pages stay cheap; only the by-slug queries pull full content.

const siteSettingsQuery = `*[_type == "siteSettings"][0] {
  name,
  title,
  bio,
  location,
  email,
  phone,
  avatar,
  socials
}`

const projectsQuery = `*[_type == "project"] | order(year desc) {
  _id,
  title,
  slug,
  tagline,
  summary,
  tech,
  year,
  images,
  links,
  featured
}`

const featuredProjectsQuery = `*[_type == "project" && featured == true] | order(year desc) {
  _id,
  title,
  slug,
  tagline,
  summary,
  tech,
  year,
  images,
  links
}`

const projectBySlugQuery = `*[_type == "project" && slug.current == $slug][0] {
  _id,
  title,
  slug,
  tagline,
  summary,
  tech,
  year,
  images,
  links
}`

const jobsQuery = `*[_type == "job"] | order(startDate desc) {
  _id,
  company,
  role,
  startDate,
  endDate,
  location,
  bullets,
  tech,
  logo
}`

const postsQuery = `*[_type == "post"] | order(publishedAt desc) {
  _id,
  title,
  slug,
  excerpt,
  coverImage,
  tags,
  publishedAt,
  featured
}`

const featuredPostsQuery = `*[_type == "post" && featured == true] | order(publishedAt desc) {
  _id,
  title,
  slug,
  excerpt,
  coverImage,
  tags,
  publishedAt
}`

const postBySlugQuery = `*[_type == "post" && slug.current == $slug][0] {
  _id,
  title,
  slug,
  excerpt,
  coverImage,
  tags,
  publishedAt,
  body
}`

const postSlugsQuery = `*[_type == "post"] {
  slug
}`

const projectSlugsQuery = `*[_type == "project"] {
  slug
}`
